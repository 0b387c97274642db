package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/robotworld/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() voxel.Scene {
	g := voxel.NewGrid(8, 8, 8)
	g.Fill(0, 8, 0, 8, 0, 1, voxel.Blue)
	g.SetVoxel(4, 4, 4, voxel.Red)

	scene := voxel.NewScene("test scene", g, voxel.NonZero)
	scene.Markers["robot"] = voxel.Point{X: 4, Y: 4, Z: 4}
	scene.Markers["human"] = voxel.Point{X: 1, Y: 1, Z: 1}
	return scene
}

func TestPNG(t *testing.T) {
	filename := filepath.Join(t.TempDir(), EnvironmentPNG)
	r := NewPNG(filename)
	r.Width, r.Height = 300, 200

	require.NoError(t, r.Display(testScene()))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestDrawPoints(t *testing.T) {
	scene := voxel.Scene{
		Bounds:  voxel.Point{X: 4, Y: 4, Z: 4},
		Points:  []voxel.Point{{X: 0, Y: 0, Z: 0}},
		Colors:  []voxel.Color{voxel.Blue},
		Markers: map[string]voxel.Point{},
	}
	dc := Draw(scene, 200, 200)

	// The centre of the voxel at the origin is blue
	p := newProjection(scene.Bounds, 200, 200)
	u, v := p.project(0, 0, 0)
	r, g, b, _ := dc.Image().At(int(u+p.scale/2), int(v-p.scale/2)).RGBA()
	assert.Equal(t, []uint32{0, 0, 0xffff}, []uint32{r, g, b})
}

func TestDisplayError(t *testing.T) {
	r := NewPNG(filepath.Join(t.TempDir(), "missing", "scene.png"))
	assert.Error(t, r.Display(testScene()))
}

func TestProgress(t *testing.T) {
	filename := filepath.Join(t.TempDir(), ProgressPNG)
	rewards := []float64{-10, 3, 5, 12}
	lengths := []float64{1, 13, 15, 12}
	require.NoError(t, Progress(filename, rewards, lengths))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, progressWidth, img.Bounds().Dx())
	assert.Equal(t, progressHeight, img.Bounds().Dy())

	// Empty and constant data still draw
	assert.NotNil(t, DrawProgress(nil, []float64{2, 2}, 400, 200))
}

func TestHTML(t *testing.T) {
	filename := filepath.Join(t.TempDir(), EnvironmentHTML)
	require.NoError(t, NewHTML(filename).Display(testScene()))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test scene")
	assert.Contains(t, string(data), "robot")
}
