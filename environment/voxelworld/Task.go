package voxelworld

import (
	"math"

	"github.com/samuelfneumann/robotworld/environment"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Rewards
	FallReward float64 = -10.0
	TiltReward float64 = -5.0
	StepReward float64 = 1.0

	// Largest absolute rotation about any axis before the robot tips
	// over
	MaxTilt float64 = math.Pi / 2
)

// Pose indices
const (
	xIndex = iota
	yIndex
	zIndex
	rollIndex
	pitchIndex
	yawIndex

	PoseDims
)

// Balance implements the task of walking without falling or tipping
// over. The robot falls once its height drops below 0 and tips over once
// the magnitude of any rotation exceeds π/2.
//
// Rewards are +1 per step, -10 for a step on which the robot has
// fallen, and -5 for a step on which the robot has tipped over. Tipping
// over takes priority over falling.
type Balance struct {
	fall *environment.IntervalLimit
	tilt *environment.FunctionEnder
}

// NewBalance returns a new Balance task
func NewBalance() *Balance {
	above := r1.Interval{Min: 0, Max: math.Inf(1)}
	fall := environment.NewIntervalLimit([]r1.Interval{above},
		[]int{zIndex}, ts.TerminalStateReached)

	tilt := environment.NewFunctionEnder(tipped, ts.TerminalStateReached)

	return &Balance{fall: fall, tilt: tilt}
}

// tipped returns whether any rotation of pose exceeds MaxTilt in
// magnitude
func tipped(pose mat.Vector) bool {
	for i := rollIndex; i <= yawIndex; i++ {
		if math.Abs(pose.AtVec(i)) > MaxTilt {
			return true
		}
	}
	return false
}

// End determines whether the pose held in the observation of t ends the
// episode and sets the reward of t. Both checks always run so that the
// tilt reward overrides the fall reward.
func (b *Balance) End(t *ts.TimeStep) bool {
	t.Reward = StepReward

	if b.fall.End(t) {
		t.Reward = FallReward
	}
	if b.tilt.End(t) {
		t.Reward = TiltReward
	}

	return t.Last()
}

// Min returns the minimum reward attainable in the Task
func (b *Balance) Min() float64 { return FallReward }

// Max returns the maximum reward attainable in the Task
func (b *Balance) Max() float64 { return StepReward }

// RewardSpec returns the reward specification of the Task
func (b *Balance) RewardSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return environment.NewSpec([]int{1}, environment.Reward, lowerBound,
		upperBound, environment.Discrete)
}
