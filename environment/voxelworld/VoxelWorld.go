// Package voxelworld implements a 3D voxel world in which a robot
// marker and a human figure are drawn over backgrounds sampled from a
// shape dataset
package voxelworld

import (
	"fmt"

	"github.com/samuelfneumann/robotworld/dataset"
	"github.com/samuelfneumann/robotworld/environment"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"github.com/samuelfneumann/robotworld/utils/floatutils"
	"github.com/samuelfneumann/robotworld/utils/intutils"
	"github.com/samuelfneumann/robotworld/voxel"
	"gonum.org/v1/gonum/mat"
)

const (
	ActionDims int     = PoseDims
	MinAction  float64 = -1.0
	MaxAction  float64 = 1.0

	// Side of the cubic robot marker, centred on the robot
	MarkerSize int = 5
)

// Renderer displays the robot marker voxels of a voxel world
type Renderer interface {
	Display(voxel.Scene) error
}

// VoxelWorld implements a 3D voxel world holding a walking robot and a
// standing human.
//
// The robot pose is 6-dimensional: position (x, y, z) followed by
// rotation (roll, pitch, yaw). Actions are 6-dimensional and are
// scaled by the configured action scale before being added to the pose.
// Actions are declared to lie in [-1, 1] but are not clipped, and the
// pose itself is never clamped.
//
// Observations are size × size × size RGB voxel grids. Each observation
// is a background image from the dataset with a 5 × 5 × 5 robot marker,
// black except for its red centre voxel, centred at the robot position
// offset by size / 2, and the human figure at the human position. Both
// are clipped so that they lie fully inside the grid. By default a new
// background is drawn for every observation, including repeated calls
// to Observe.
//
// Episodes end when the robot falls below z = 0 or tips over. Stepping
// after the episode has ended continues to accumulate the pose; callers
// should Reset.
//
// VoxelWorld is not safe for concurrent use.
type VoxelWorld struct {
	*Balance
	config Config
	shapes *dataset.Shapes
	size   int

	backgrounds *environment.CategoricalStarter
	humans      *environment.CategoricalStarter

	pose       *mat.VecDense
	human      voxel.Point
	background *voxel.Grid
	current    *voxel.Grid
	marker     *voxel.Grid
	figure     *voxel.Grid

	lastStep ts.TimeStep
}

// New creates a new VoxelWorld drawing backgrounds from shapes and
// returns it along with its first timestep. The seed determines the
// background and human position draws.
func New(shapes *dataset.Shapes, c Config, seed uint64) (*VoxelWorld,
	ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	if shapes.Len() < 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: dataset holds no images")
	}
	if shapes.Size < MinSize {
		return nil, ts.TimeStep{}, fmt.Errorf("new: grid size must be at "+
			"least %d, have %d", MinSize, shapes.Size)
	}

	backgrounds, err := environment.NewCategoricalStarter(
		[]int{shapes.Len()}, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	// Human positions are drawn from [0, size - height) on every axis
	bound := shapes.Size - HumanHeight
	humans, err := environment.NewCategoricalStarter(
		[]int{bound, bound, bound}, seed+1)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	marker := voxel.NewGrid(MarkerSize, MarkerSize, MarkerSize)
	marker.SetVoxel(MarkerSize/2, MarkerSize/2, MarkerSize/2, voxel.Red)

	v := &VoxelWorld{
		Balance:     NewBalance(),
		config:      c,
		shapes:      shapes,
		size:        shapes.Size,
		backgrounds: backgrounds,
		humans:      humans,
		marker:      marker,
		figure:      HumanShape(),
	}

	step, err := v.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return v, step, nil
}

// Reset draws a new background and human position, returns the robot
// to the origin with no rotation, and returns the first timestep of the
// next episode
func (v *VoxelWorld) Reset() (ts.TimeStep, error) {
	v.pose = mat.NewVecDense(PoseDims, nil)

	h := v.humans.Start()
	v.human = voxel.Point{
		X: int(h.AtVec(0)),
		Y: int(h.AtVec(1)),
		Z: int(h.AtVec(2)),
	}

	v.background = v.sampleBackground()
	v.current = v.compose()

	v.lastStep = ts.New(ts.First, 0.0, v.config.Discount, v.current, 0)
	return v.lastStep, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. The returned timestep has an empty Info map.
func (v *VoxelWorld) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"%d-dimensional, have %d", ActionDims, a.Len())
	}

	// Apply the scaled action to the pose
	v.pose.AddScaledVec(v.pose, v.config.ActionScale, a)

	// Check the pose for an episode end
	probe := ts.New(ts.Mid, 0.0, v.config.Discount,
		mat.VecDenseCopyOf(v.pose), v.lastStep.Number+1)
	done := v.End(&probe)

	nextStep := ts.New(probe.StepType, probe.Reward, v.config.Discount,
		v.Observe(), probe.Number)
	if done {
		nextStep.Discount = 0.0
		nextStep.SetEnd(probe.EndType())
	}

	v.lastStep = nextStep
	return nextStep, done, nil
}

// Observe returns the current observation. Unless the background is
// persistent, every call draws a new background from the dataset.
func (v *VoxelWorld) Observe() *voxel.Grid {
	if !v.config.PersistentBackground {
		v.background = v.sampleBackground()
	}
	v.current = v.compose()
	return v.current
}

// sampleBackground returns a copy of a uniformly chosen dataset image
func (v *VoxelWorld) sampleBackground() *voxel.Grid {
	i := int(v.backgrounds.Start().AtVec(0))
	return v.shapes.Image(i).Clone()
}

// compose draws the robot marker and human figure over a copy of the
// background
func (v *VoxelWorld) compose() *voxel.Grid {
	obs := v.background.Clone()

	centre := v.RobotVoxel()
	half := MarkerSize / 2
	obs.Paste(centre.X-half, centre.Y-half, centre.Z-half, v.marker)

	h := v.HumanVoxel()
	obs.Paste(h.X, h.Y, h.Z, v.figure)

	return obs
}

// RobotVoxel returns the voxel at the centre of the robot marker: the
// robot position offset by half the grid size, clipped so that the
// marker lies inside the grid
func (v *VoxelWorld) RobotVoxel() voxel.Point {
	half := MarkerSize / 2
	offset := float64(v.size) / 2
	lo, hi := float64(half), float64(v.size-half-1)

	coord := func(i int) int {
		return int(floatutils.Clip(v.pose.AtVec(i)+offset, lo, hi))
	}
	return voxel.Point{X: coord(xIndex), Y: coord(yIndex), Z: coord(zIndex)}
}

// HumanVoxel returns the corner voxel of the human figure, clipped so
// that the figure lies inside the grid
func (v *VoxelWorld) HumanVoxel() voxel.Point {
	return voxel.Point{
		X: intutils.Clip(v.human.X, 0, v.size-HumanHeight),
		Y: intutils.Clip(v.human.Y, 0, v.size-HumanWidth),
		Z: intutils.Clip(v.human.Z, 0, v.size-HumanDepth),
	}
}

// Render passes every robot marker voxel of the current observation to
// r, with the robot and human positions as scene markers
func (v *VoxelWorld) Render(r Renderer) error {
	title := fmt.Sprintf("Robot Position: %v, Rotation: %v",
		v.Position(), v.Rotation())
	scene := voxel.NewScene(title, v.current, voxel.Matches(voxel.Red))
	scene.Markers["robot"] = v.RobotVoxel()
	scene.Markers["human"] = v.HumanVoxel()

	if err := r.Display(scene); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Scene returns every non-black voxel of the current observation with
// the robot and human positions as scene markers
func (v *VoxelWorld) Scene() voxel.Scene {
	scene := voxel.NewScene("3D Environment Visualization", v.current,
		voxel.NonZero)
	scene.Markers["robot"] = v.RobotVoxel()
	scene.Markers["human"] = v.HumanVoxel()
	return scene
}

// Position returns the robot position
func (v *VoxelWorld) Position() [3]float64 {
	return [3]float64{
		v.pose.AtVec(xIndex),
		v.pose.AtVec(yIndex),
		v.pose.AtVec(zIndex),
	}
}

// Rotation returns the robot rotation
func (v *VoxelWorld) Rotation() [3]float64 {
	return [3]float64{
		v.pose.AtVec(rollIndex),
		v.pose.AtVec(pitchIndex),
		v.pose.AtVec(yawIndex),
	}
}

// Human returns the sampled human position, before clipping
func (v *VoxelWorld) Human() voxel.Point {
	return v.human
}

// Size returns the side length of the cubic observation grid
func (v *VoxelWorld) Size() int {
	return v.size
}

// CurrentTimeStep returns the last timestep returned by the environment
func (v *VoxelWorld) CurrentTimeStep() ts.TimeStep {
	return v.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (v *VoxelWorld) ObservationSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{255})

	return environment.NewSpec([]int{v.size, v.size, v.size, voxel.Channels},
		environment.Observation, lowerBound, upperBound,
		environment.Discrete)
}

// ActionSpec returns the action specification of the environment
func (v *VoxelWorld) ActionSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{MinAction})
	upperBound := mat.NewVecDense(1, []float64{MaxAction})

	return environment.NewSpec([]int{ActionDims}, environment.Action,
		lowerBound, upperBound, environment.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (v *VoxelWorld) DiscountSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{v.config.Discount})

	return environment.NewSpec([]int{1}, environment.Discount, lowerBound,
		upperBound, environment.Continuous)
}

// String returns a string representation of the environment
func (v *VoxelWorld) String() string {
	str := "Voxel World  |  Position: %v  |  Rotation: %v  |  Human: %v"
	return fmt.Sprintf(str, v.Position(), v.Rotation(), v.human)
}
