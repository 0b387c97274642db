// Package expreplay implements experience replay buffers
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/robotworld/timestep"
)

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	SampleMethod      SelectorType `yaml:"sample_method" json:"sample_method"`
	SampleSize        int          `yaml:"sample_size" json:"sample_size"`
	MaxReplayCapacity int          `yaml:"max_replay_capacity" json:"max_replay_capacity"`
	MinReplayCapacity int          `yaml:"min_replay_capacity" json:"min_replay_capacity"`
}

// Create creates and returns the ExperienceReplayer with the specified
// Config.
func (c Config) Create(featureSize, actionSize int,
	seed uint64) (ExperienceReplayer, error) {
	sampler, err := CreateSelector(c.SampleMethod, c.SampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	return New(sampler, c.MinReplayCapacity, c.MaxReplayCapacity,
		featureSize, actionSize)
}

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer
	Add(t timestep.Transition) error

	// Sample samples a batch of experience from the buffer and returns
	// the batch of (s, a, r, γ, s') tuples as flattened row-major
	// slices
	Sample() ([]float64, []float64, []float64, []float64, []float64,
		error)

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// cache implements a concrete ExperienceReplayer as a ring buffer.
// Once full, each new transition replaces the oldest one.
type cache struct {
	stateCache     []float64
	actionCache    []float64
	rewardCache    []float64
	discountCache  []float64
	nextStateCache []float64

	// next is the slot written by the next Add
	next int
	full bool

	sampler Selector

	minCapacity int
	maxCapacity int
	featureSize int
	actionSize  int
}

// New returns a new ExperienceReplayer. The sampler parameter
// determines how data is sampled from the buffer. The featureSize and
// actionSize parameters define the size of the feature and action
// vectors. The minCapacity parameter determines the minimum number of
// samples that should be in the buffer before sampling is allowed, and
// maxCapacity the maximum number of samples held at any given time.
func New(sampler Selector, minCapacity, maxCapacity, featureSize,
	actionSize int) (ExperienceReplayer, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity < minCapacity {
		return nil, fmt.Errorf("new: maxCapacity (%v) must be >= "+
			"minCapacity (%v)", maxCapacity, minCapacity)
	}
	if sampler.BatchSize() < 1 || sampler.BatchSize() > maxCapacity {
		return nil, fmt.Errorf("new: batch size (%v) must be in [1, %v]",
			sampler.BatchSize(), maxCapacity)
	}
	if featureSize < 0 || actionSize < 0 {
		return nil, fmt.Errorf("new: feature size (%v) and action size "+
			"(%v) must be non-negative", featureSize, actionSize)
	}

	return &cache{
		stateCache:     make([]float64, maxCapacity*featureSize),
		actionCache:    make([]float64, maxCapacity*actionSize),
		rewardCache:    make([]float64, maxCapacity),
		discountCache:  make([]float64, maxCapacity),
		nextStateCache: make([]float64, maxCapacity*featureSize),

		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		featureSize: featureSize,
		actionSize:  actionSize,
	}, nil
}

// String returns the string representation of the cache
func (c *cache) String() string {
	return fmt.Sprintf("Experience Replay  |  Capacity: %v/%v  |  "+
		"Batch Size: %v", c.Capacity(), c.MaxCapacity(), c.BatchSize())
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (c *cache) BatchSize() int {
	return c.sampler.BatchSize()
}

// insertOrder returns the slot holding the i-th oldest sample
func (c *cache) insertOrder(i int) int {
	if !c.full {
		return i
	}
	return (c.next + i) % c.maxCapacity
}

// Sample samples and returns a batch of transitions from the replay
// buffer. The returned values are the state, action, reward, discount,
// and next state.
func (c *cache) Sample() ([]float64, []float64, []float64, []float64,
	[]float64, error) {
	if c.Capacity() == 0 {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
		return nil, nil, nil, nil, nil, err
	}
	if c.Capacity() < c.MinCapacity() {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
		return nil, nil, nil, nil, nil, err
	}

	indices := c.sampler.choose(c)

	stateBatch := make([]float64, len(indices)*c.featureSize)
	nextStateBatch := make([]float64, len(indices)*c.featureSize)
	actionBatch := make([]float64, len(indices)*c.actionSize)
	rewardBatch := make([]float64, len(indices))
	discountBatch := make([]float64, len(indices))

	for i, index := range indices {
		copy(stateBatch[i*c.featureSize:],
			c.stateCache[index*c.featureSize:(index+1)*c.featureSize])
		copy(nextStateBatch[i*c.featureSize:],
			c.nextStateCache[index*c.featureSize:(index+1)*c.featureSize])
		copy(actionBatch[i*c.actionSize:],
			c.actionCache[index*c.actionSize:(index+1)*c.actionSize])

		rewardBatch[i] = c.rewardCache[index]
		discountBatch[i] = c.discountCache[index]
	}

	return stateBatch, actionBatch, rewardBatch, discountBatch,
		nextStateBatch, nil
}

// Capacity returns the current number of elements in the cache that
// are available for sampling
func (c *cache) Capacity() int {
	if c.full {
		return c.maxCapacity
	}
	return c.next
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the cache
func (c *cache) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// cache before sampling is allowed
func (c *cache) MinCapacity() int {
	return c.minCapacity
}

// Add adds a transition to the cache, replacing the oldest transition
// if the cache is full
func (c *cache) Add(t timestep.Transition) error {
	if t.State.Len() != c.featureSize || t.NextState.Len() != c.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)\n\thave(%v)",
			c.featureSize, t.State.Len())
	}
	if t.Action.Len() != c.actionSize {
		return fmt.Errorf("add: invalid action size \n\twant(%v)\n\thave(%v)",
			c.actionSize, t.Action.Len())
	}

	index := c.next
	copyVec(c.stateCache[index*c.featureSize:], t.State, c.featureSize)
	copyVec(c.nextStateCache[index*c.featureSize:], t.NextState,
		c.featureSize)
	copyVec(c.actionCache[index*c.actionSize:], t.Action, c.actionSize)

	c.rewardCache[index] = t.Reward
	c.discountCache[index] = t.Discount

	c.next = (c.next + 1) % c.maxCapacity
	if c.next == 0 {
		c.full = true
	}
	return nil
}

// copyVec copies the first n elements of v into dst
func copyVec(dst []float64, v interface{ AtVec(int) float64 }, n int) {
	for i := 0; i < n; i++ {
		dst[i] = v.AtVec(i)
	}
}
