package tracker

import (
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/robotworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// episode returns the timesteps of an episode with the given rewards
// following the first step
func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0.0, 1.0, nil, 0)}
	for i, r := range rewards {
		t := ts.Mid
		if i == len(rewards)-1 {
			t = ts.Last
		}
		steps = append(steps, ts.New(t, r, 1.0, nil, i+1))
	}
	return steps
}

func TestTrackers(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "return.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	var steps []ts.TimeStep
	steps = append(steps, episode(1, 1, -10)...)
	steps = append(steps, episode(1, 10)...)
	for _, step := range steps {
		require.NoError(t, ret.Track(step))
		require.NoError(t, length.Track(step))
	}

	assert.Equal(t, []float64{-8, 11}, ret.Data())
	assert.Equal(t, []float64{3, 2}, length.Data())

	require.NoError(t, ret.Save())
	require.NoError(t, length.Save())

	data, err := LoadData(filepath.Join(dir, "return.bin"))
	require.NoError(t, err)
	assert.Equal(t, []float64{-8, 11}, data)

	data, err = LoadData(filepath.Join(dir, "length.bin"))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2}, data)
}

func TestReturnNotSequential(t *testing.T) {
	ret := NewReturn("")
	require.NoError(t, ret.Track(ts.New(ts.First, 0, 1, nil, 0)))
	assert.Error(t, ret.Track(ts.New(ts.Mid, 1, 1, nil, 2)))
}

func TestUnfinishedEpisode(t *testing.T) {
	ret := NewReturn("")
	for _, step := range episode(1, 1, 1)[:3] {
		require.NoError(t, ret.Track(step))
	}
	assert.Empty(t, ret.Data())

	// No filename means nothing is written
	assert.NoError(t, ret.Save())
}

func TestLoadDataMissing(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
