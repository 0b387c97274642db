package wrappers

import (
	"fmt"

	"github.com/samuelfneumann/robotworld/environment"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
)

// Cutoff wraps an environment and ends episodes once they reach a fixed
// number of steps. Cut off episodes end with timestep.Timeout and keep
// the discount of the wrapped environment, since the final state is not
// terminal.
//
// Cutoff itself implements the environment.Environment interface.
type Cutoff struct {
	environment.Environment
	limit    *environment.StepLimit
	lastStep ts.TimeStep
}

// NewCutoff returns a new Cutoff wrapping env. A cutoff of 0 never ends
// an episode early. The wrapped environment is reset.
func NewCutoff(env environment.Environment, steps int) (*Cutoff,
	ts.TimeStep, error) {
	if steps < 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newCutoff: cutoff must be "+
			"non-negative, have %d", steps)
	}

	c := &Cutoff{
		Environment: env,
		limit:       environment.NewStepLimit(steps),
	}

	step, err := c.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newCutoff: %w", err)
	}
	return c, step, nil
}

// Reset resets the wrapped environment
func (c *Cutoff) Reset() (ts.TimeStep, error) {
	step, err := c.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	c.lastStep = step
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended
func (c *Cutoff) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, done, err := c.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, false, err
	}

	if !done {
		done = c.limit.End(&step)
	}

	c.lastStep = step
	return step, done, nil
}

// CurrentTimeStep returns the last timestep returned by the environment
func (c *Cutoff) CurrentTimeStep() ts.TimeStep {
	return c.lastStep
}

// String returns a string representation of the Cutoff environment
func (c *Cutoff) String() string {
	return fmt.Sprintf("Cutoff: %v", c.Environment)
}
