// Package qlearning implements the Q-Learning algorithm with linear
// function approximation, an ε-greedy behaviour policy and experience
// replay.
package qlearning

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/samuelfneumann/robotworld/environment"
	"github.com/samuelfneumann/robotworld/expreplay"
	"github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm. Actions must be
// 1-dimensional and discrete, with values 0, 1, ..., n-1.
//
// QLearning implements the agent.Saver interface.
type QLearning struct {
	policy  *EGreedy
	learner *QLearner
	weights *mat.Dense
	buffer  expreplay.ExperienceReplayer

	epsilonDecay float64
	minEpsilon   float64
}

// New creates a new QLearning agent acting in env
func New(env environment.Environment, c Config,
	seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	// Ensure actions are discrete and 1-dimensional
	actionSpec := env.ActionSpec()
	if actionSpec.Len() != 1 {
		return nil, fmt.Errorf("new: QLearning can only be used with " +
			"1-dimensional actions")
	}
	if actionSpec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: QLearning can only be used with " +
			"discrete actions")
	}

	actions := int(actionSpec.Upper(0)) + 1
	features := env.ObservationSpec().Len()

	buffer, err := c.replay().Create(features, 1, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	// Create the weight matrix: rows = actions, cols = features
	weights := mat.NewDense(actions, features, nil)

	return &QLearning{
		policy:       NewEGreedy(c.Epsilon, weights, seed),
		learner:      NewQLearner(weights, c.LearningRate),
		weights:      weights,
		buffer:       buffer,
		epsilonDecay: c.EpsilonDecay,
		minEpsilon:   c.MinEpsilon,
	}, nil
}

// Act selects an action from the ε-greedy behaviour policy
func (q *QLearning) Act(t timestep.TimeStep) *mat.VecDense {
	return q.policy.SelectAction(t)
}

// Remember stores a transition in the replay buffer
func (q *QLearning) Remember(t timestep.Transition) error {
	if err := q.buffer.Add(t); err != nil {
		return fmt.Errorf("remember: %w", err)
	}
	return nil
}

// Replay updates the weights on a batch sampled uniformly from the
// replay buffer, then decays ε
func (q *QLearning) Replay() error {
	states, actions, rewards, discounts, nextStates, err := q.buffer.Sample()
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	q.learner.Step(states, actions, rewards, discounts, nextStates)

	if e := q.policy.Epsilon(); e > q.minEpsilon {
		q.policy.SetEpsilon(max(q.minEpsilon, e*q.epsilonDecay))
	}
	return nil
}

// Memory returns the number of transitions in the replay buffer
func (q *QLearning) Memory() int {
	return q.buffer.Capacity()
}

// BatchSize returns the number of transitions used in each replay
func (q *QLearning) BatchSize() int {
	return q.buffer.BatchSize()
}

// Epsilon returns the current probability of a random action
func (q *QLearning) Epsilon() float64 {
	return q.policy.Epsilon()
}

// Weights returns a copy of the action-value weights, with one row per
// action
func (q *QLearning) Weights() *mat.Dense {
	return mat.DenseCopyOf(q.weights)
}

// model is the serialized form of a QLearning agent
type model struct {
	Weights []byte
	Epsilon float64
}

// Save writes the weights and current ε of the agent to w
func (q *QLearning) Save(w io.Writer) error {
	weights, err := q.weights.MarshalBinary()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	m := model{Weights: weights, Epsilon: q.policy.Epsilon()}
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Load reads weights and ε written by Save into the agent. The saved
// weights must have the same shape as the agent's.
func (q *QLearning) Load(r io.Reader) error {
	var m model
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	var weights mat.Dense
	if err := weights.UnmarshalBinary(m.Weights); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	rows, cols := q.weights.Dims()
	if wr, wc := weights.Dims(); wr != rows || wc != cols {
		return fmt.Errorf("load: saved weights have shape (%d, %d), want "+
			"(%d, %d)", wr, wc, rows, cols)
	}

	q.weights.Copy(&weights)
	q.policy.SetEpsilon(m.Epsilon)
	return nil
}
