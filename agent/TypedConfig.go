package agent

import (
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// Type represents a type of an agent. For example QLearning or Random
type Type string

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that type can be deserialized.
//
// No Type's are registered with this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type so
// that upon deserialization of a TypedConfig, the config is decoded
// into that concrete type.
func Register(agentType Type, config Config) {
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// Registered returns the sorted registered agent types
func Registered() []Type {
	types := make([]Type, 0, len(registeredTypes))
	for t := range registeredTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// TypedConfig wraps a Config to enable a Config to be YAML marshaled
// and unmarshaled into its underlying concrete type. In YAML, a
// TypedConfig is a mapping with a type key and a config key:
//
//	type: QLearning
//	config:
//	  learning_rate: 0.01
type TypedConfig struct {
	Config
}

// NewTypedConfig returns a new TypedConfig wrapping c
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Config: c}
}

// MarshalYAML implements the yaml.Marshaler interface
func (t TypedConfig) MarshalYAML() (interface{}, error) {
	if t.Config == nil {
		return nil, fmt.Errorf("marshalYAML: no agent config")
	}
	return map[string]interface{}{
		"type":   t.Config.Type(),
		"config": t.Config,
	}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (t *TypedConfig) UnmarshalYAML(value *yaml.Node) error {
	var typed struct {
		Type   Type      `yaml:"type"`
		Config yaml.Node `yaml:"config"`
	}
	if err := value.Decode(&typed); err != nil {
		return fmt.Errorf("unmarshalYAML: %w", err)
	}

	configType, ok := registeredTypes[typed.Type]
	if !ok {
		return fmt.Errorf("unmarshalYAML: unregistered agent type %q, "+
			"have %v", typed.Type, Registered())
	}

	config := reflect.New(configType)
	if !typed.Config.IsZero() {
		if err := typed.Config.Decode(config.Interface()); err != nil {
			return fmt.Errorf("unmarshalYAML: %w", err)
		}
	}

	t.Config = config.Elem().Interface().(Config)
	return nil
}
