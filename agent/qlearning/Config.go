package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/robotworld/agent"
	"github.com/samuelfneumann/robotworld/environment"
	"github.com/samuelfneumann/robotworld/expreplay"
)

// Type is the agent.Type of QLearning agents
const Type agent.Type = "QLearning"

func init() {
	// Register the Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(Type, Config{})
}

// Config represents a configuration for the QLearning agent
type Config struct {
	// Initial probability of a random action
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`

	// After each replay, ε ← max(MinEpsilon, ε × EpsilonDecay)
	EpsilonDecay float64 `yaml:"epsilon_decay" json:"epsilon_decay"`
	MinEpsilon   float64 `yaml:"min_epsilon" json:"min_epsilon"`

	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`

	BatchSize      int `yaml:"batch_size" json:"batch_size"`
	ReplayCapacity int `yaml:"replay_capacity" json:"replay_capacity"`
}

// DefaultConfig returns the default QLearning configuration
func DefaultConfig() Config {
	return Config{
		Epsilon:        1.0,
		EpsilonDecay:   0.995,
		MinEpsilon:     0.01,
		LearningRate:   0.01,
		BatchSize:      32,
		ReplayCapacity: 2000,
	}
}

// CreateAgent creates the agent from the Config. Agent weights are
// always initialized to zero.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	q, err := New(env, c, seed)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon %v ∉ [0, 1]", c.Epsilon)
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > c.Epsilon {
		return fmt.Errorf("validate: min epsilon %v ∉ [0, %v]",
			c.MinEpsilon, c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("validate: epsilon decay %v ∉ (0, 1]",
			c.EpsilonDecay)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive")
	}
	if c.BatchSize < 1 || c.ReplayCapacity < c.BatchSize {
		return fmt.Errorf("validate: need 1 <= batch size (%v) <= replay "+
			"capacity (%v)", c.BatchSize, c.ReplayCapacity)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return Type
}

// replay returns the configuration of the agent's replay buffer
func (c Config) replay() expreplay.Config {
	return expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		SampleSize:        c.BatchSize,
		MaxReplayCapacity: c.ReplayCapacity,
		MinReplayCapacity: c.BatchSize,
	}
}
