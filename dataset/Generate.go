package dataset

import (
	"math"

	"github.com/samuelfneumann/robotworld/voxel"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Shape kinds drawn by Generate, stored in label factor 4
const (
	Cube float64 = iota
	Sphere
	Cylinder
)

// Generate returns a synthetic dataset of count images of the given
// size. Each image has a coloured floor (the z = 0 layer), a coloured
// back wall (the x = 0 layer) and one coloured object resting on the
// floor. Labels hold the factors
//
//	floor hue, wall hue, object hue, scale, shape, orientation
//
// with hues and scale in [0, 1) and orientation always 0.
func Generate(count, size int, seed uint64) *Shapes {
	src := rand.NewSource(seed)
	unit := distuv.Uniform{Min: 0, Max: 1, Src: src}
	kinds := distuv.NewCategorical([]float64{1, 1, 1}, src)

	shapes := Dummy(count, size)
	for i := 0; i < count; i++ {
		floorHue, wallHue, objectHue := unit.Rand(), unit.Rand(), unit.Rand()
		scale := unit.Rand()
		kind := kinds.Rand()

		g := shapes.Image(i)
		g.Fill(0, size, 0, size, 0, 1, hueColor(floorHue))
		g.Fill(0, 1, 0, size, 0, size, hueColor(wallHue))
		drawObject(g, kind, scale, hueColor(objectHue))

		copy(shapes.Label(i), []float64{floorHue, wallHue, objectHue, scale,
			kind, 0})
	}
	return shapes
}

// drawObject draws an object of the given kind centred in the grid and
// resting on the floor. Its radius grows with scale.
func drawObject(g *voxel.Grid, kind, scale float64, c voxel.Color) {
	size, _, _ := g.Shape()
	radius := 1 + int(scale*float64(size)/8)
	centre := size / 2

	for x := centre - radius; x <= centre+radius; x++ {
		for y := centre - radius; y <= centre+radius; y++ {
			for z := 1; z <= 2*radius+1; z++ {
				if !g.Contains(x, y, z) {
					continue
				}

				dx, dy := float64(x-centre), float64(y-centre)
				dz := float64(z - 1 - radius)
				r := float64(radius)

				inside := true
				switch kind {
				case Sphere:
					inside = dx*dx+dy*dy+dz*dz <= r*r
				case Cylinder:
					inside = dx*dx+dy*dy <= r*r
				}
				if inside {
					g.SetVoxel(x, y, z, c)
				}
			}
		}
	}
}

// hueColor converts a hue in [0, 1) to a fully saturated RGB colour
func hueColor(hue float64) voxel.Color {
	h := math.Mod(hue, 1) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)

	var r, g, b float64
	switch int(h) {
	case 0:
		r, g, b = 1, x, 0
	case 1:
		r, g, b = x, 1, 0
	case 2:
		r, g, b = 0, 1, x
	case 3:
		r, g, b = 0, x, 1
	case 4:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}
	c := voxel.Color{uint8(r * 255), uint8(g * 255), uint8(b * 255)}

	// Pure red marks the robot
	if c == voxel.Red {
		c[1] = 1
	}
	return c
}
