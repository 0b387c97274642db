package navigation

import (
	"github.com/samuelfneumann/robotworld/environment"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"github.com/samuelfneumann/robotworld/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Rewards
	CollisionReward   float64 = -10.0
	GoalReward        float64 = 10.0
	OutOfBoundsReward float64 = 0.0
	StepReward        float64 = 1.0

	// Distance below which the robot touches an obstacle or the goal
	ContactRadius float64 = 1.0

	GoalX float64 = 50.0
	GoalY float64 = 50.0
)

// Point is a position in the plane
type Point struct {
	X, Y float64
}

// DefaultObstacles returns the three static obstacles of the bird robot
// world
func DefaultObstacles() []Point {
	return []Point{{20, 20}, {40, 40}, {60, 60}}
}

// Navigate implements the task of flying the bird robot to a goal
// without touching any obstacle or leaving the arena.
//
// Rewards are +1 on every step that does not end the episode, -10 for
// the step that collides with an obstacle, +10 for the step that
// reaches the goal, and 0 for the step that leaves the arena. A
// collision takes priority over reaching the goal, and both take
// priority over leaving the arena.
type Navigate struct {
	goal      Point
	obstacles []Point
	bounds    *environment.IntervalLimit
}

// NewNavigate returns a new Navigate task with a goal at (goalX, goalY)
// and the given static obstacles
func NewNavigate(goalX, goalY float64, obstacles []Point) *Navigate {
	arena := r1.Interval{Min: MinCoordinate, Max: MaxCoordinate}
	bounds := environment.NewIntervalLimit([]r1.Interval{arena, arena},
		[]int{xIndex, yIndex}, ts.OutOfBounds)

	return &Navigate{
		goal:      Point{goalX, goalY},
		obstacles: append([]Point(nil), obstacles...),
		bounds:    bounds,
	}
}

// NewDefaultNavigate returns the Navigate task with the default goal
// and obstacles
func NewDefaultNavigate() *Navigate {
	return NewNavigate(GoalX, GoalY, DefaultObstacles())
}

// Goal returns the goal position
func (n *Navigate) Goal() Point {
	return n.goal
}

// Obstacles returns a copy of the obstacle positions
func (n *Navigate) Obstacles() []Point {
	return append([]Point(nil), n.obstacles...)
}

// Collides returns whether any obstacle is within ContactRadius of
// (x, y)
func (n *Navigate) Collides(x, y float64) bool {
	for _, o := range n.obstacles {
		if matutils.Dist2(x, y, o.X, o.Y) < ContactRadius {
			return true
		}
	}
	return false
}

// AtGoal returns whether (x, y) is within ContactRadius of the goal
func (n *Navigate) AtGoal(x, y float64) bool {
	return matutils.Dist2(x, y, n.goal.X, n.goal.Y) < ContactRadius
}

// End determines if a timestep is the last in the episode, and if so
// sets its reward and discount accordingly. Every check always runs in
// the order leave arena, collide, reach goal so that later checks
// override the reward chosen by earlier ones.
func (n *Navigate) End(t *ts.TimeStep) bool {
	obs := t.Observation
	x, y := obs.AtVec(xIndex), obs.AtVec(yIndex)

	if n.bounds.End(t) {
		t.Reward = OutOfBoundsReward
		t.Discount = 0.0
	}

	if n.Collides(x, y) {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		t.Reward = CollisionReward
		t.Discount = 0.0
	} else if n.AtGoal(x, y) {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		t.Reward = GoalReward
		t.Discount = 0.0
	}

	return t.Last()
}

// Min returns the minimum reward attainable in the Task
func (n *Navigate) Min() float64 { return CollisionReward }

// Max returns the maximum reward attainable in the Task
func (n *Navigate) Max() float64 { return GoalReward }

// RewardSpec returns the reward specification of the Task
func (n *Navigate) RewardSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{n.Min()})
	upperBound := mat.NewVecDense(1, []float64{n.Max()})

	return environment.NewSpec([]int{1}, environment.Reward, lowerBound,
		upperBound, environment.Discrete)
}
