package environment

import (
	"math"
	"testing"

	"github.com/samuelfneumann/robotworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestNewSpec(t *testing.T) {
	one := mat.NewVecDense(1, []float64{0})
	s := NewSpec([]int{4, 4, 4, 3}, Observation, one, one, Discrete)
	assert.Equal(t, 192, s.Len())
	assert.Equal(t, 0.0, s.Lower(100))

	lower := mat.NewVecDense(2, []float64{-1, -2})
	upper := mat.NewVecDense(2, []float64{1, 2})
	s = NewSpec([]int{2}, Action, lower, upper, Continuous)
	assert.Equal(t, -2.0, s.Lower(1))
	assert.Equal(t, 2.0, s.Upper(1))

	assert.Panics(t, func() {
		NewSpec([]int{3}, Action, lower, upper, Continuous)
	})
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := timestep.New(timestep.Mid, 1, 1, mat.NewVecDense(1, nil), 2)
	require.False(t, limit.End(&step))
	require.True(t, step.Mid())

	step.Number = 3
	require.True(t, limit.End(&step))
	require.True(t, step.Last())
	require.Equal(t, timestep.Timeout, step.EndType())

	never := NewStepLimit(0)
	step = timestep.New(timestep.Mid, 1, 1, mat.NewVecDense(1, nil), 1e6)
	require.False(t, never.End(&step))
}

func TestIntervalLimit(t *testing.T) {
	bounds := r1.Interval{Min: 0, Max: 200}
	limit := NewIntervalLimit([]r1.Interval{bounds, bounds}, []int{0, 1},
		timestep.OutOfBounds)

	tests := []struct {
		x, y float64
		end  bool
	}{
		{0, 0, false},
		{200, 200, false},
		{-0.1, 5, true},
		{5, 200.1, true},
	}

	for _, test := range tests {
		obs := mat.NewVecDense(3, []float64{test.x, test.y, 1000})
		step := timestep.New(timestep.Mid, 0, 1, obs, 1)
		assert.Equal(t, test.end, limit.End(&step), "(%v, %v)", test.x,
			test.y)
		if test.end {
			assert.Equal(t, timestep.OutOfBounds, step.EndType())
		}
	}
}

func TestFunctionEnder(t *testing.T) {
	ender := NewFunctionEnder(func(v mat.Vector) bool {
		return math.Abs(v.AtVec(0)) > 1
	}, timestep.TerminalStateReached)

	step := timestep.New(timestep.Mid, 0, 1,
		mat.NewVecDense(1, []float64{-2}), 1)
	require.True(t, ender.End(&step))
	require.Equal(t, timestep.TerminalStateReached, step.EndType())
}

func TestCategoricalStarter(t *testing.T) {
	s, err := NewCategoricalStarter([]int{54, 54, 54}, 7)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		start := s.Start()
		require.Equal(t, 3, start.Len())
		for j := 0; j < start.Len(); j++ {
			v := start.AtVec(j)
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 54.0)
			require.Equal(t, math.Trunc(v), v)
		}
	}

	_, err = NewCategoricalStarter([]int{0}, 7)
	require.Error(t, err)
}
