package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/robotworld/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadMissingFileUsesDummyData(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	path := filepath.Join(t.TempDir(), "missing.gob")

	shapes, err := Load(path, WithLogger(zap.New(core)),
		WithDummyShape(3, 8))
	require.NoError(t, err)
	require.NoError(t, shapes.Validate())

	assert.Equal(t, 3, shapes.Len())
	assert.Equal(t, 8, shapes.Size)
	for _, v := range shapes.Images {
		require.Zero(t, v)
	}
	for _, v := range shapes.Labels {
		require.Zero(t, v)
	}

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, path, entry.ContextMap()["path"])
}

func TestLoadDefaultDummyShape(t *testing.T) {
	shapes, err := Load(filepath.Join(t.TempDir(), "missing.gob"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCount, shapes.Count)
	assert.Equal(t, DefaultSize, shapes.Size)
	assert.Len(t, shapes.Labels, DefaultCount*LabelDims)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shapes.gob")
	want := Generate(4, 10, 42)
	require.NoError(t, Save(path, want))

	have, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Count, have.Count)
	assert.Equal(t, want.Size, have.Size)
	assert.Equal(t, want.Images, have.Images)
	assert.Equal(t, want.Labels, have.Labels)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a dataset"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Dummy(2, 4)
	require.NoError(t, s.Validate())

	s.Labels = s.Labels[:5]
	require.Error(t, s.Validate())

	s = Dummy(2, 4)
	s.Images = s.Images[1:]
	require.Error(t, s.Validate())

	require.Error(t, Save(filepath.Join(t.TempDir(), "x.gob"), s))
}

func TestImageSharesStorage(t *testing.T) {
	s := Dummy(2, 4)
	g := s.Image(1)
	g.SetVoxel(0, 0, 0, voxel.Red)

	assert.Equal(t, uint8(255), s.Images[4*4*4*voxel.Channels])
	assert.Equal(t, voxel.Black, s.Image(0).Voxel(0, 0, 0))
}

func TestGenerate(t *testing.T) {
	s := Generate(5, 16, 1)
	require.NoError(t, s.Validate())

	for i := 0; i < s.Len(); i++ {
		g := s.Image(i)
		label := s.Label(i)

		// Floor, wall and object are all drawn
		assert.Equal(t, hueColor(label[0]), g.Voxel(15, 15, 0))
		assert.Equal(t, hueColor(label[1]), g.Voxel(0, 5, 5))
		assert.Equal(t, hueColor(label[2]), g.Voxel(8, 8, 1))
		assert.Contains(t, []float64{Cube, Sphere, Cylinder}, label[4])
	}

	// Generation is deterministic given the seed
	assert.Equal(t, s.Images, Generate(5, 16, 1).Images)
}

func TestGenerateAvoidsMarkerColour(t *testing.T) {
	for _, hue := range []float64{0, 0.001, 0.5, 0.9999, 1} {
		assert.NotEqual(t, voxel.Red, hueColor(hue), "hue %v", hue)
	}

	s := Generate(20, 8, 3)
	for i := 0; i < s.Len(); i++ {
		points, _ := s.Image(i).Where(voxel.Matches(voxel.Red))
		assert.Empty(t, points, "image %d", i)
	}
}
