// Package experiment implements functionality for running an experiment
package experiment

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/samuelfneumann/robotworld/agent"
	"github.com/samuelfneumann/robotworld/agent/random"
	"github.com/samuelfneumann/robotworld/dataset"
	env "github.com/samuelfneumann/robotworld/environment"
	"github.com/samuelfneumann/robotworld/environment/envconfig"
	"github.com/samuelfneumann/robotworld/experiment/checkpointer"
	"github.com/samuelfneumann/robotworld/experiment/tracker"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultEpisodes is the number of training episodes when none are
	// configured
	DefaultEpisodes int = 1000

	DefaultDataset string = "3dshapes.gob"

	// Names of the tracker files written to the output directory
	ReturnFile string = "episode_returns.bin"
	LengthFile string = "episode_lengths.bin"
)

// Config represents a configuration of an experiment. Configs are
// read from YAML:
//
//	episodes: 1000
//	seed: 1
//	environment:
//	  environment: VoxelWorld
//	  task: Balance
//	agent:
//	  type: Random
//	  config:
//	    batch_size: 32
//	    replay_capacity: 2000
type Config struct {
	Episodes int    `yaml:"episodes"`
	Seed     uint64 `yaml:"seed"`

	// Path of the shapes dataset
	Dataset string `yaml:"dataset"`

	// Directory to which models, tracked data and figures are written
	Output string `yaml:"output"`

	LogLevel string `yaml:"log_level"`

	// Save the agent every CheckpointEvery episodes, 0 saves only the
	// final model
	CheckpointEvery int `yaml:"checkpoint_every"`

	// Also write an interactive HTML visualization
	HTML bool `yaml:"html"`

	Environment envconfig.Config  `yaml:"environment"`
	Agent       agent.TypedConfig `yaml:"agent"`
}

// DefaultConfig returns the default experiment: a random agent in the
// voxel world for DefaultEpisodes episodes
func DefaultConfig() Config {
	return Config{
		Episodes:    DefaultEpisodes,
		Seed:        1,
		Dataset:     DefaultDataset,
		Output:      ".",
		LogLevel:    "info",
		Environment: envconfig.DefaultVoxelWorld(),
		Agent:       agent.NewTypedConfig(random.DefaultConfig()),
	}
}

// LoadConfig reads a YAML Config from r. Fields missing from the YAML
// keep their DefaultConfig values.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return c, nil
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Episodes < 0 {
		return fmt.Errorf("validate: episodes must be non-negative")
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("validate: checkpoint interval must be " +
			"non-negative")
	}
	if c.Agent.Config == nil {
		return fmt.Errorf("validate: no agent config")
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %w", err)
	}
	return nil
}

// ModelFilename returns the filename of the model saved after the
// argument number of episodes
func (c Config) ModelFilename(episode int) string {
	return checkpointer.ModelFilename(c.Output)(episode)
}

// Create creates the environment, agent and experiment described by
// the Config. Returns and episode lengths are tracked to files in the
// output directory and the agent is checkpointed if it can be saved.
func (c Config) Create(shapes *dataset.Shapes, opts ...Option) (*Online,
	env.Environment, agent.Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("create: %w", err)
	}

	e, _, err := c.Environment.Create(c.Seed, shapes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create: %w", err)
	}

	a, err := c.Agent.CreateAgent(e, c.Seed)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create: could not create "+
			"agent: %w", err)
	}

	opts = append(opts, WithTrackers(
		tracker.NewReturn(filepath.Join(c.Output, ReturnFile)),
		tracker.NewEpisodeLength(filepath.Join(c.Output, LengthFile)),
	))
	if s, ok := a.(agent.Saver); ok && c.CheckpointEvery > 0 {
		opts = append(opts, WithCheckpointers(
			checkpointer.NewNStep(c.CheckpointEvery, s,
				checkpointer.ModelFilename(c.Output)),
		))
	}

	o, err := NewOnline(e, a, c.Episodes, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create: %w", err)
	}
	return o, e, a, nil
}

// SaveModel saves a to the model file for the argument number of
// episodes under the output directory
func (c Config) SaveModel(a agent.Agent, episode int) (string, error) {
	s, ok := a.(agent.Saver)
	if !ok {
		return "", fmt.Errorf("saveModel: agent %T cannot be saved", a)
	}

	filename := c.ModelFilename(episode)
	if err := checkpointer.SaveFile(s, filename); err != nil {
		return "", fmt.Errorf("saveModel: %w", err)
	}
	return filename, nil
}
