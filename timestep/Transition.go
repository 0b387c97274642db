package timestep

import (
	"gonum.org/v1/gonum/mat"
)

// Transition is a single (s, a, r, γ, s') tuple of the agent-environment
// interaction. The reward and discount are those of NextStep; the
// discount is 0 whenever NextStep ends the episode by reaching a
// terminal state.
type Transition struct {
	State     mat.Vector
	Action    mat.Vector
	Reward    float64
	Discount  float64
	NextState mat.Vector
	Done      bool
}

// NewTransition creates a new Transition from the step in which action
// was taken and the step that followed
func NewTransition(step TimeStep, action mat.Vector,
	nextStep TimeStep) Transition {
	return Transition{
		State:     step.Observation,
		Action:    action,
		Reward:    nextStep.Reward,
		Discount:  nextStep.Discount,
		NextState: nextStep.Observation,
		Done:      nextStep.Last(),
	}
}
