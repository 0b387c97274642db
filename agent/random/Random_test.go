package random

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/samuelfneumann/robotworld/dataset"
	"github.com/samuelfneumann/robotworld/environment/navigation"
	"github.com/samuelfneumann/robotworld/environment/voxelworld"
	"github.com/samuelfneumann/robotworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestContinuousActions(t *testing.T) {
	env, step, err := voxelworld.New(dataset.Dummy(1, 16),
		voxelworld.DefaultConfig(), 0)
	require.NoError(t, err)

	r, err := New(env, DefaultConfig(), 3)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		a := r.Act(step)
		require.Equal(t, voxelworld.ActionDims, a.Len())
		for j := 0; j < a.Len(); j++ {
			assert.GreaterOrEqual(t, a.AtVec(j), -1.0)
			assert.LessOrEqual(t, a.AtVec(j), 1.0)
		}
	}
}

func TestDiscreteActions(t *testing.T) {
	env, step, err := navigation.New(navigation.NewDefaultNavigate(),
		navigation.Discount)
	require.NoError(t, err)

	r, err := New(env, DefaultConfig(), 3)
	require.NoError(t, err)

	counts := make(map[float64]int)
	for i := 0; i < 600; i++ {
		counts[r.Act(step).AtVec(0)]++
	}

	require.Len(t, counts, 6)
	for a := 0.0; a <= 5; a++ {
		assert.Greater(t, counts[a], 50, "action %v", a)
	}
}

func TestMemory(t *testing.T) {
	env, _, err := navigation.New(navigation.NewDefaultNavigate(),
		navigation.Discount)
	require.NoError(t, err)

	r, err := New(env, Config{BatchSize: 2, ReplayCapacity: 3}, 0)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, r.Remember(timestep.Transition{}))
		assert.Equal(t, min(i, 3), r.Memory())
	}
	assert.Equal(t, 2, r.BatchSize())
	assert.Equal(t, 1.0, r.Epsilon())
	assert.NoError(t, r.Replay())
}

func TestSave(t *testing.T) {
	env, _, err := navigation.New(navigation.NewDefaultNavigate(),
		navigation.Discount)
	require.NoError(t, err)
	r, err := New(env, DefaultConfig(), 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Save(&buf))

	var bounds []r1.Interval
	require.NoError(t, gob.NewDecoder(&buf).Decode(&bounds))
	assert.Equal(t, []r1.Interval{{Min: 0, Max: 6}}, bounds)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{BatchSize: 0, ReplayCapacity: 1}.Validate())
	assert.Error(t, Config{BatchSize: 4, ReplayCapacity: 1}.Validate())
}
