// Package navigation implements the 2D bird robot navigation
// environment
package navigation

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/robotworld/environment"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	ObservationDims int = 12
	ActionDims      int = 1

	// Observation bounds
	MinCoordinate float64 = 0.0
	MaxCoordinate float64 = 200.0

	// Discount on every step that does not end the episode
	Discount float64 = 0.9

	// Reported obstacles; further obstacles only affect collisions
	ReportedObstacles int = 2
)

// Discrete actions
const (
	Accelerate int = iota
	Decelerate
	TurnRight
	TurnLeft
	Forward
	Backward

	MinDiscreteAction = Accelerate
	MaxDiscreteAction = Backward
)

// Observation feature indices
const (
	xIndex = iota
	yIndex
	orientationIndex
	velocityIndex
	goalXIndex
	goalYIndex
	obstacleIndex
)

// Navigation implements the bird robot navigation environment. A robot
// flies over a 200 × 200 arena and must reach a goal while avoiding
// static obstacles.
//
// Observations are 12-dimensional:
//
//	Index	Feature
//	  0		x position
//	  1		y position
//	  2		heading in degrees (unbounded, no wraparound)
//	  3		speed (unbounded)
//	  4-5	goal position
//	  6-8	first obstacle x, y and distance to the robot
//	  9-11	second obstacle x, y and distance to the robot
//
// Obstacle features are recomputed after every action and are 0 after a
// reset. Observations are declared to lie in [0, 200] but are not
// clipped; leaving the arena ends the episode.
//
// Actions are 1-dimensional and discrete:
//
//	Action	Meaning
//	  0		Accelerate (speed + 1)
//	  1		Decelerate (speed - 1)
//	  2		Turn right (heading + 1°)
//	  3		Turn left (heading - 1°)
//	  4		Move forward by speed along the heading
//	  5		Move backward by speed along the heading
//
// Illegal actions result in an error and leave the environment
// unchanged. Stepping an environment whose episode has ended resets it.
//
// The environment is deterministic. It is not safe for concurrent use.
//
// Navigation implements the environment.Environment interface
type Navigation struct {
	*Navigate
	state    *mat.VecDense
	ended    bool
	discount float64
	lastStep ts.TimeStep
}

// New creates a new Navigation environment with the argument task and
// returns it along with its first timestep
func New(t *Navigate, discount float64) (*Navigation, ts.TimeStep, error) {
	if discount < 0 || discount > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount %v ∉ "+
			"[0, 1]", discount)
	}

	n := &Navigation{
		Navigate: t,
		discount: discount,
	}

	step, err := n.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return n, step, nil
}

// Reset resets the robot to the origin at rest, facing 0°
func (n *Navigation) Reset() (ts.TimeStep, error) {
	n.state = mat.NewVecDense(ObservationDims, nil)
	n.state.SetVec(goalXIndex, n.goal.X)
	n.state.SetVec(goalYIndex, n.goal.Y)
	n.ended = false

	// A restart carries no reward and full discount
	n.lastStep = ts.New(ts.First, 0.0, 1.0, n.observation(), 0)
	return n.lastStep, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. If the previous step ended the episode, Step
// ignores the action and resets the environment instead.
func (n *Navigation) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if n.ended {
		step, err := n.Reset()
		return step, false, err
	}

	if a.Len() != ActionDims {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"%d-dimensional", ActionDims)
	}

	action := a.AtVec(0)
	intAction := int(action)
	if float64(intAction) != action || intAction < MinDiscreteAction ||
		intAction > MaxDiscreteAction {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1, 2, 3, 4, 5)", action)
	}

	n.apply(intAction)
	n.updateObstacles()

	nextStep := ts.New(ts.Mid, StepReward, n.discount, n.observation(),
		n.lastStep.Number+1)
	n.ended = n.End(&nextStep)

	n.lastStep = nextStep
	return nextStep, n.ended, nil
}

// apply applies the state update of a legal action
func (n *Navigation) apply(action int) {
	heading := n.state.AtVec(orientationIndex)
	speed := n.state.AtVec(velocityIndex)
	radians := heading * math.Pi / 180.0

	switch action {
	case Accelerate:
		n.state.SetVec(velocityIndex, speed+1)

	case Decelerate:
		n.state.SetVec(velocityIndex, speed-1)

	case TurnRight:
		n.state.SetVec(orientationIndex, heading+1)

	case TurnLeft:
		n.state.SetVec(orientationIndex, heading-1)

	case Forward:
		n.move(speed*math.Cos(radians), speed*math.Sin(radians))

	case Backward:
		n.move(-speed*math.Cos(radians), -speed*math.Sin(radians))
	}
}

func (n *Navigation) move(dx, dy float64) {
	n.state.SetVec(xIndex, n.state.AtVec(xIndex)+dx)
	n.state.SetVec(yIndex, n.state.AtVec(yIndex)+dy)
}

// updateObstacles writes the position of each reported obstacle and its
// current distance to the robot into the state
func (n *Navigation) updateObstacles() {
	x, y := n.state.AtVec(xIndex), n.state.AtVec(yIndex)

	for i, o := range n.obstacles {
		if i >= ReportedObstacles {
			break
		}
		offset := obstacleIndex + 3*i
		n.state.SetVec(offset, o.X)
		n.state.SetVec(offset+1, o.Y)
		n.state.SetVec(offset+2, math.Hypot(x-o.X, y-o.Y))
	}
}

// observation returns a copy of the current state
func (n *Navigation) observation() *mat.VecDense {
	return mat.VecDenseCopyOf(n.state)
}

// Position returns the current position of the robot
func (n *Navigation) Position() (x, y float64) {
	return n.state.AtVec(xIndex), n.state.AtVec(yIndex)
}

// Heading returns the current heading of the robot in degrees
func (n *Navigation) Heading() float64 {
	return n.state.AtVec(orientationIndex)
}

// Speed returns the current speed of the robot
func (n *Navigation) Speed() float64 {
	return n.state.AtVec(velocityIndex)
}

// Ended returns whether the current episode has ended
func (n *Navigation) Ended() bool {
	return n.ended
}

// CurrentTimeStep returns the last timestep returned by the environment
func (n *Navigation) CurrentTimeStep() ts.TimeStep {
	return n.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (n *Navigation) ObservationSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{MinCoordinate})
	upperBound := mat.NewVecDense(1, []float64{MaxCoordinate})

	return environment.NewSpec([]int{ObservationDims},
		environment.Observation, lowerBound, upperBound,
		environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (n *Navigation) ActionSpec() environment.Spec {
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return environment.NewSpec([]int{ActionDims}, environment.Action,
		lowerBound, upperBound, environment.Discrete)
}

// DiscountSpec returns the discounting specification of the environment
func (n *Navigation) DiscountSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{n.discount})

	return environment.NewSpec([]int{1}, environment.Discount, lowerBound,
		upperBound, environment.Continuous)
}

// String returns a string representation of the environment
func (n *Navigation) String() string {
	str := "Navigation  |  Position: (%.2f, %.2f)  |  Heading: %v°  |  " +
		"Speed: %v"
	x, y := n.Position()
	return fmt.Sprintf(str, x, y, n.Heading(), n.Speed())
}
