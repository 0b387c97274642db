// Package envconfig provides configuration structs for configuring
// environments with default parameters and tasks. Environment
// configurations in this package are YAML and JSON serializable.
package envconfig

import (
	"fmt"

	"github.com/samuelfneumann/robotworld/dataset"
	env "github.com/samuelfneumann/robotworld/environment"
	"github.com/samuelfneumann/robotworld/environment/navigation"
	"github.com/samuelfneumann/robotworld/environment/voxelworld"
	"github.com/samuelfneumann/robotworld/environment/wrappers"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/spatial/r1"
	"gopkg.in/yaml.v3"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Navigation EnvName = "Navigation"
	VoxelWorld EnvName = "VoxelWorld"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment			Task
//	Navigation			Navigate
//	VoxelWorld			Balance
type TaskName string

// Tasks available for configuration
const (
	Navigate TaskName = "Navigate"
	Balance  TaskName = "Balance"
)

// TileCoding configures tile coding of a subset of observation features
type TileCoding struct {
	Tilings int       `yaml:"tilings" json:"tilings"`
	Indices []int     `yaml:"indices" json:"indices"`
	Min     []float64 `yaml:"min" json:"min"`
	Max     []float64 `yaml:"max" json:"max"`
	Bins    []int     `yaml:"bins" json:"bins"`
}

// Config implements a specific configuration of a specific environment
// and specific task
type Config struct {
	Environment   EnvName  `yaml:"environment" json:"environment"`
	Task          TaskName `yaml:"task" json:"task"`
	EpisodeCutoff uint     `yaml:"episode_cutoff" json:"episode_cutoff"`
	Discount      float64  `yaml:"discount" json:"discount"`

	// VoxelWorld only
	ActionScale          float64 `yaml:"action_scale,omitempty" json:"action_scale,omitempty"`
	PersistentBackground bool    `yaml:"persistent_background,omitempty" json:"persistent_background,omitempty"`

	// TileCoding, if set, tile codes observations
	TileCoding *TileCoding `yaml:"tile_coding,omitempty" json:"tile_coding,omitempty"`
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff uint,
	discount float64) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// Default returns the default configuration of the named environment
func Default(envName EnvName) (Config, error) {
	switch envName {
	case Navigation:
		return DefaultNavigation(), nil
	case VoxelWorld:
		return DefaultVoxelWorld(), nil
	}
	return Config{}, fmt.Errorf("default: no such environment %v", envName)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. When the
// YAML names a different environment than the one already held by c,
// decoding starts from that environment's defaults so that keys missing
// from the YAML take the named environment's default values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var named struct {
		Environment EnvName `yaml:"environment"`
	}
	if err := value.Decode(&named); err != nil {
		return fmt.Errorf("unmarshalYAML: %w", err)
	}

	if named.Environment != "" && named.Environment != c.Environment {
		d, err := Default(named.Environment)
		if err != nil {
			return fmt.Errorf("unmarshalYAML: %w", err)
		}
		*c = d
	}

	type plain Config
	if err := value.Decode((*plain)(c)); err != nil {
		return fmt.Errorf("unmarshalYAML: %w", err)
	}
	return nil
}

// DefaultNavigation returns the default Navigation configuration, with
// position and speed tile coded for linear function approximation
func DefaultNavigation() Config {
	c := NewConfig(Navigation, Navigate, 1000, navigation.Discount)
	c.TileCoding = &TileCoding{
		Tilings: 4,
		Indices: []int{0, 1, 3},
		Min:     []float64{navigation.MinCoordinate, navigation.MinCoordinate, -3},
		Max:     []float64{navigation.MaxCoordinate, navigation.MaxCoordinate, 3},
		Bins:    []int{10, 10, 3},
	}
	return c
}

// DefaultVoxelWorld returns the default VoxelWorld configuration
func DefaultVoxelWorld() Config {
	vc := voxelworld.DefaultConfig()
	c := NewConfig(VoxelWorld, Balance, 500, vc.Discount)
	c.ActionScale = vc.ActionScale
	return c
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. The shapes dataset provides
// backgrounds for the VoxelWorld and is ignored by other environments.
func (c Config) Create(seed uint64, shapes *dataset.Shapes) (env.Environment,
	ts.TimeStep, error) {
	var (
		e    env.Environment
		step ts.TimeStep
		err  error
	)

	switch c.Environment {
	case Navigation:
		e, step, err = CreateNavigation(c.Task, c.Discount)

	case VoxelWorld:
		e, step, err = CreateVoxelWorld(c.Task, shapes, voxelworld.Config{
			ActionScale:          c.ActionScale,
			Discount:             c.Discount,
			PersistentBackground: c.PersistentBackground,
		}, seed)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
			"environment %v, no such environment", c.Environment)
	}
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	if c.TileCoding != nil {
		coder, err := c.TileCoding.coder(seed)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
		e, step, err = wrappers.NewTileCoding(e, coder)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
	}

	if c.EpisodeCutoff > 0 {
		e, step, err = wrappers.NewCutoff(e, int(c.EpisodeCutoff))
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
	}

	return e, step, nil
}

// coder returns the TileCoder described by the configuration
func (t *TileCoding) coder(seed uint64) (*wrappers.TileCoder, error) {
	if len(t.Min) != len(t.Indices) || len(t.Max) != len(t.Indices) {
		return nil, fmt.Errorf("coder: tile coding needs bounds for each " +
			"of its indices")
	}

	bounds := make([]r1.Interval, len(t.Indices))
	for i := range bounds {
		bounds[i] = r1.Interval{Min: t.Min[i], Max: t.Max[i]}
	}
	return wrappers.NewTileCoder(t.Tilings, t.Indices, bounds, t.Bins, seed)
}

// CreateNavigation is a factory for creating the Navigation environment
// with the default goal and obstacles
func CreateNavigation(taskName TaskName, discount float64) (env.Environment,
	ts.TimeStep, error) {
	var task *navigation.Navigate
	switch taskName {
	case Navigate:
		task = navigation.NewDefaultNavigate()

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createNavigation: "+
			"Navigation environment has no task %v", taskName)
	}

	n, step, err := navigation.New(task, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createNavigation: %w", err)
	}
	return n, step, nil
}

// CreateVoxelWorld is a factory for creating the VoxelWorld environment
// over a shapes dataset
func CreateVoxelWorld(taskName TaskName, shapes *dataset.Shapes,
	c voxelworld.Config, seed uint64) (env.Environment, ts.TimeStep, error) {
	if taskName != Balance {
		return nil, ts.TimeStep{}, fmt.Errorf("createVoxelWorld: "+
			"VoxelWorld environment has no task %v", taskName)
	}
	if shapes == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createVoxelWorld: no " +
			"shapes dataset")
	}

	v, step, err := voxelworld.New(shapes, c, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createVoxelWorld: %w", err)
	}
	return v, step, nil
}
