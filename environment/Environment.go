// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode should end. If End returns true,
// it has changed the StepType of the argument TimeStep to
// timestep.Last and recorded the reason with SetEnd.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment.
//
// Environments in this module are single-threaded state machines and
// are not safe for concurrent use.
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first timestep of the next episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given an action and returns
	// the next timestep along with whether the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the most recently returned timestep
	CurrentTimeStep() timestep.TimeStep

	ObservationSpec() Spec
	ActionSpec() Spec
	DiscountSpec() Spec
	RewardSpec() Spec
}
