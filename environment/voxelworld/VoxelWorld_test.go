package voxelworld

import (
	"errors"
	"math"
	"testing"

	"github.com/samuelfneumann/robotworld/dataset"
	ts "github.com/samuelfneumann/robotworld/timestep"
	"github.com/samuelfneumann/robotworld/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const testSize = 16

var (
	backgroundA = voxel.Color{10, 20, 30}
	backgroundB = voxel.Color{40, 50, 60}
)

// twoBackgrounds returns a dataset of two uniformly coloured images
func twoBackgrounds() *dataset.Shapes {
	shapes := dataset.Dummy(2, testSize)
	shapes.Image(0).Fill(0, testSize, 0, testSize, 0, testSize, backgroundA)
	shapes.Image(1).Fill(0, testSize, 0, testSize, 0, testSize, backgroundB)
	return shapes
}

func newWorld(t *testing.T, c Config) (*VoxelWorld, ts.TimeStep) {
	t.Helper()
	v, step, err := New(twoBackgrounds(), c, 1)
	require.NoError(t, err)
	return v, step
}

func act(a ...float64) *mat.VecDense {
	return mat.NewVecDense(ActionDims, a)
}

// corner returns the colour of a voxel that neither marker nor human
// can cover in a testSize grid
func corner(obs mat.Vector) voxel.Color {
	return obs.(*voxel.Grid).Voxel(testSize-1, testSize-1, testSize-1)
}

func TestHumanShape(t *testing.T) {
	g := HumanShape()

	x, y, z := g.Shape()
	require.Equal(t, []int{10, 5, 2}, []int{x, y, z})

	tests := []struct {
		x, y  int
		color voxel.Color
	}{
		{8, 2, voxel.Pink}, {9, 3, voxel.Pink},
		{4, 1, voxel.Blue}, {7, 3, voxel.Blue}, {6, 2, voxel.Blue},
		{5, 0, voxel.Yellow}, {6, 0, voxel.Yellow}, {5, 4, voxel.Yellow},
		{0, 1, voxel.Green}, {3, 3, voxel.Green},
		{0, 0, voxel.Black}, {0, 2, voxel.Black}, {9, 0, voxel.Black},
		{8, 1, voxel.Black}, {4, 0, voxel.Black}, {7, 4, voxel.Black},
	}
	for _, test := range tests {
		for depth := 0; depth < HumanDepth; depth++ {
			assert.Equal(t, test.color, g.Voxel(test.x, test.y, depth),
				"voxel (%d, %d, %d)", test.x, test.y, depth)
		}
	}

	// Head 4, body 12, arms 4 and legs 8 voxels in each depth slice
	points, _ := g.Where(voxel.NonZero)
	assert.Len(t, points, 2*28)

	// Every call returns a fresh figure
	g.SetVoxel(0, 0, 0, voxel.Red)
	assert.Equal(t, voxel.Black, HumanShape().Voxel(0, 0, 0))
}

func TestReset(t *testing.T) {
	v, first := newWorld(t, DefaultConfig())

	assert.True(t, first.First())
	assert.Equal(t, 0, first.Number)
	assert.Equal(t, [3]float64{}, v.Position())
	assert.Equal(t, [3]float64{}, v.Rotation())

	h := v.Human()
	for _, c := range []int{h.X, h.Y, h.Z} {
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, testSize-HumanHeight)
	}

	// The marker is centred in the grid when the robot is at the origin
	obs := first.Observation.(*voxel.Grid)
	centre := testSize / 2
	assert.Equal(t, voxel.Point{X: centre, Y: centre, Z: centre},
		v.RobotVoxel())
	assert.Equal(t, voxel.Red, obs.Voxel(centre, centre, centre))
	assert.Equal(t, voxel.Black, obs.Voxel(centre, centre, centre+2))
	assert.Equal(t, voxel.Black, obs.Voxel(centre+2, centre-2, centre+1))

	// The human figure is drawn at its position
	hv := v.HumanVoxel()
	assert.Equal(t, voxel.Pink, obs.Voxel(hv.X+8, hv.Y+2, hv.Z))
	assert.Equal(t, voxel.Green, obs.Voxel(hv.X, hv.Y+1, hv.Z+1))

	// Everything else is background
	assert.Contains(t, []voxel.Color{backgroundA, backgroundB}, corner(obs))
}

func TestStep(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	next, done, err := v.Step(act(0, 0, 1, 0, 0, 0))
	require.NoError(t, err)
	assert.False(t, done)
	assert.True(t, next.Mid())
	assert.Equal(t, StepReward, next.Reward)
	assert.Equal(t, 1.0, next.Discount)
	assert.Equal(t, 1, next.Number)
	assert.NotNil(t, next.Info)
	assert.Empty(t, next.Info)
	assert.InDelta(t, 0.1, v.Position()[2], 1e-12)

	_, isGrid := next.Observation.(*voxel.Grid)
	assert.True(t, isGrid)
}

func TestZeroAction(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	for i := 1; i <= 3; i++ {
		next, done, err := v.Step(act(0, 0, 0, 0, 0, 0))
		require.NoError(t, err)
		assert.False(t, done)
		assert.True(t, next.Mid())
		assert.Equal(t, StepReward, next.Reward)
		assert.Equal(t, i, next.Number)
		assert.Equal(t, [3]float64{}, v.Position())
		assert.Equal(t, [3]float64{}, v.Rotation())
	}
}

func TestActionsNotClipped(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	_, done, err := v.Step(act(5, -3, 2, 0.5, 0, 0))
	require.NoError(t, err)
	assert.False(t, done)
	assert.InDelta(t, 0.5, v.Position()[0], 1e-12)
	assert.InDelta(t, -0.3, v.Position()[1], 1e-12)
	assert.InDelta(t, 0.2, v.Position()[2], 1e-12)
	assert.InDelta(t, 0.05, v.Rotation()[0], 1e-12)
}

func TestFall(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	next, done, err := v.Step(act(0, 0, -1, 0, 0, 0))
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, next.Last())
	assert.Equal(t, FallReward, next.Reward)
	assert.Equal(t, 0.0, next.Discount)
	assert.Equal(t, ts.TerminalStateReached, next.EndType())
}

func TestTilt(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	// π/2 is exceeded on the 16th step
	for i := 1; i < 16; i++ {
		next, done, err := v.Step(act(0, 0, 0, 0, 1, 0))
		require.NoError(t, err)
		require.False(t, done, "step %d", i)
		require.Equal(t, StepReward, next.Reward)
	}

	next, done, err := v.Step(act(0, 0, 0, 0, 1, 0))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, TiltReward, next.Reward)
	assert.Greater(t, v.Rotation()[1], math.Pi/2)
}

func TestTiltOverridesFall(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	next, done, err := v.Step(act(0, 0, -1, -20, 0, 0))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, TiltReward, next.Reward)
}

func TestWrongActionLength(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	_, _, err := v.Step(mat.NewVecDense(3, nil))
	assert.Error(t, err)
	assert.Equal(t, [3]float64{}, v.Position())
}

func TestMarkerClipped(t *testing.T) {
	tests := []struct {
		name   string
		action *mat.VecDense
		want   voxel.Point
	}{
		{"High", act(100, 100, 100, 0, 0, 0),
			voxel.Point{X: testSize - 3, Y: testSize - 3, Z: testSize - 3}},
		{"Low", act(-100, -100, 0, 0, 0, 0),
			voxel.Point{X: 2, Y: 2, Z: testSize / 2}},
		{"Truncated", act(15, -15, 0, 0, 0, 0),
			voxel.Point{X: testSize/2 + 1, Y: testSize/2 - 2, Z: testSize / 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, _ := newWorld(t, DefaultConfig())
			next, _, err := v.Step(test.action)
			require.NoError(t, err)

			assert.Equal(t, test.want, v.RobotVoxel())
			obs := next.Observation.(*voxel.Grid)
			assert.Equal(t, voxel.Red, obs.Voxel(test.want.X, test.want.Y,
				test.want.Z))
		})
	}
}

func TestBackgroundResampled(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	seen := map[voxel.Color]bool{}
	for i := 0; i < 64; i++ {
		seen[corner(v.Observe())] = true
	}
	assert.True(t, seen[backgroundA])
	assert.True(t, seen[backgroundB])
}

func TestPersistentBackground(t *testing.T) {
	c := DefaultConfig()
	c.PersistentBackground = true
	v, first := newWorld(t, c)

	want := corner(first.Observation)
	for i := 0; i < 32; i++ {
		next, _, err := v.Step(act(0, 0, 0.1, 0, 0, 0))
		require.NoError(t, err)
		require.Equal(t, want, corner(next.Observation))
	}
}

func TestDatasetNotModified(t *testing.T) {
	shapes := twoBackgrounds()
	v, _, err := New(shapes, DefaultConfig(), 3)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, _, err := v.Step(act(0.1, 0.1, 0.1, 0, 0, 0))
		require.NoError(t, err)
	}

	centre := testSize / 2
	assert.Equal(t, backgroundA, shapes.Image(0).Voxel(centre, centre, centre))
	assert.Equal(t, backgroundB, shapes.Image(1).Voxel(centre, centre, centre))
	points, _ := shapes.Image(0).Where(voxel.Matches(voxel.Pink))
	assert.Empty(t, points)
}

func TestObservationsIndependent(t *testing.T) {
	v, first := newWorld(t, DefaultConfig())
	before := first.Observation.(*voxel.Grid).Clone()

	_, _, err := v.Step(act(10, 0, 0, 0, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, before.Raw(), first.Observation.(*voxel.Grid).Raw())
}

func TestSeeded(t *testing.T) {
	v1, _, err := New(twoBackgrounds(), DefaultConfig(), 42)
	require.NoError(t, err)
	v2, _, err := New(twoBackgrounds(), DefaultConfig(), 42)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, v1.Human(), v2.Human())
		assert.Equal(t, corner(v1.Observe()), corner(v2.Observe()))
		_, err = v1.Reset()
		require.NoError(t, err)
		_, err = v2.Reset()
		require.NoError(t, err)
	}
}

type recorder struct {
	scenes []voxel.Scene
	err    error
}

func (r *recorder) Display(s voxel.Scene) error {
	r.scenes = append(r.scenes, s)
	return r.err
}

func TestRender(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())
	r := &recorder{}

	require.NoError(t, v.Render(r))
	require.Len(t, r.scenes, 1)

	centre := testSize / 2
	scene := r.scenes[0]
	assert.Equal(t, []voxel.Point{{X: centre, Y: centre, Z: centre}},
		scene.Points)
	assert.Equal(t, []voxel.Color{voxel.Red}, scene.Colors)
	assert.Equal(t, v.RobotVoxel(), scene.Markers["robot"])
	assert.Equal(t, v.HumanVoxel(), scene.Markers["human"])
	assert.Equal(t, voxel.Point{X: testSize, Y: testSize, Z: testSize},
		scene.Bounds)

	r.err = errors.New("display failed")
	assert.ErrorIs(t, v.Render(r), r.err)
}

func TestScene(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	scene := v.Scene()
	for _, c := range scene.Colors {
		require.NotEqual(t, voxel.Black, c)
	}

	// The background fills every voxel except the black voxels of the
	// marker shell and human figure
	total := testSize * testSize * testSize
	black := MarkerSize*MarkerSize*MarkerSize - 1 +
		HumanHeight*HumanWidth*HumanDepth - 56
	assert.Less(t, len(scene.Points), total)
	assert.GreaterOrEqual(t, len(scene.Points), total-black)

	centre := testSize / 2
	assert.Contains(t, scene.Points, voxel.Point{X: centre, Y: centre,
		Z: centre})
	assert.Equal(t, v.RobotVoxel(), scene.Markers["robot"])
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		shapes *dataset.Shapes
		config Config
	}{
		{"TooSmall", dataset.Dummy(1, HumanHeight), DefaultConfig()},
		{"Empty", dataset.Dummy(0, testSize), DefaultConfig()},
		{"ActionScale", dataset.Dummy(1, testSize), Config{Discount: 1}},
		{"Discount", dataset.Dummy(1, testSize),
			Config{ActionScale: 0.1, Discount: 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := New(test.shapes, test.config, 0)
			assert.Error(t, err)
		})
	}
}

func TestSpecs(t *testing.T) {
	v, _ := newWorld(t, DefaultConfig())

	assert.Equal(t, testSize*testSize*testSize*voxel.Channels,
		v.ObservationSpec().Len())
	assert.Equal(t, ActionDims, v.ActionSpec().Len())
	assert.Equal(t, -1.0, v.ActionSpec().Lower(3))
	assert.Equal(t, FallReward, v.RewardSpec().Lower(0))
	assert.Equal(t, StepReward, v.RewardSpec().Upper(0))
}
