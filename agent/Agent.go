// Package agent defines an agent interface
package agent

import (
	"io"

	"github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent selects actions with its behaviour policy, remembers the
// transitions these actions lead to, and learns from batches of
// remembered transitions.
type Agent interface {
	// Act returns the action to take in the state of the argument
	// timestep
	Act(t timestep.TimeStep) *mat.VecDense

	// Remember stores a transition for later replay
	Remember(t timestep.Transition) error

	// Replay performs one learning update on a batch of BatchSize
	// remembered transitions
	Replay() error

	// Memory returns the number of remembered transitions
	Memory() int

	// BatchSize returns the number of transitions used in each replay
	BatchSize() int

	// Epsilon returns the current exploration rate of the behaviour
	// policy
	Epsilon() float64
}

// Saver is an Agent which can write its learned model
type Saver interface {
	Agent
	Save(w io.Writer) error
}
