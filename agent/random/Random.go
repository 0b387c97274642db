// Package random implements an agent which acts uniformly at random
// and never learns
package random

import (
	"encoding/gob"
	"fmt"
	"io"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/robotworld/agent"
	"github.com/samuelfneumann/robotworld/environment"
	"github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// Type is the agent.Type of Random agents
const Type agent.Type = "Random"

func init() {
	agent.Register(Type, Config{})
}

// Config represents a configuration for the Random agent
type Config struct {
	BatchSize      int `yaml:"batch_size" json:"batch_size"`
	ReplayCapacity int `yaml:"replay_capacity" json:"replay_capacity"`
}

// DefaultConfig returns the default Random configuration
func DefaultConfig() Config {
	return Config{BatchSize: 32, ReplayCapacity: 2000}
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	r, err := New(env, c, seed)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
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

// Random selects actions uniformly at random within the action bounds
// of an environment. Continuous actions are drawn from a uniform
// distribution over the action box; discrete actions are drawn
// uniformly from the integers within the bounds.
//
// Random remembers how many transitions it has seen, up to its replay
// capacity, but stores none of them since it never learns.
//
// Random implements the agent.Saver interface.
type Random struct {
	dist     *distmv.Uniform
	discrete bool
	bounds   []r1.Interval

	memory    int
	capacity  int
	batchSize int
}

// New returns a new Random agent acting in env
func New(env environment.Environment, c Config, seed uint64) (*Random,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	spec := env.ActionSpec()
	discrete := spec.Cardinality == environment.Discrete

	bounds := make([]r1.Interval, spec.Len())
	for i := range bounds {
		low, high := spec.Lower(i), spec.Upper(i)
		if discrete {
			// Each integer in [low, high] gets an equal share
			high++
		}
		if high <= low {
			return nil, fmt.Errorf("new: action dimension %d has empty "+
				"bounds [%v, %v]", i, spec.Lower(i), spec.Upper(i))
		}
		bounds[i] = r1.Interval{Min: low, Max: high}
	}

	return &Random{
		dist:      distmv.NewUniform(bounds, rand.NewSource(seed)),
		discrete:  discrete,
		bounds:    bounds,
		capacity:  c.ReplayCapacity,
		batchSize: c.BatchSize,
	}, nil
}

// Act returns a uniformly random action
func (r *Random) Act(timestep.TimeStep) *mat.VecDense {
	action := r.dist.Rand(nil)

	if r.discrete {
		for i := range action {
			action[i] = math.Min(math.Floor(action[i]), r.bounds[i].Max-1)
		}
	}
	return mat.NewVecDense(len(action), action)
}

// Remember counts a transition
func (r *Random) Remember(timestep.Transition) error {
	if r.memory < r.capacity {
		r.memory++
	}
	return nil
}

// Replay does nothing since the agent does not learn
func (r *Random) Replay() error {
	return nil
}

// Memory returns the number of transitions remembered
func (r *Random) Memory() int {
	return r.memory
}

// BatchSize returns the number of transitions used in each replay
func (r *Random) BatchSize() int {
	return r.batchSize
}

// Epsilon returns 1, the probability of a random action
func (r *Random) Epsilon() float64 {
	return 1.0
}

// Save writes the action bounds of the agent to w
func (r *Random) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(r.bounds); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
