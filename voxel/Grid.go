// Package voxel implements dense RGB voxel grids. A Grid doubles as a
// read-only mat.Vector over its flattened channel values so that voxel
// observations can travel inside a timestep.TimeStep without copying.
package voxel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Channels is the number of colour channels stored for every voxel
const Channels = 3

// Color is an 8-bit RGB colour
type Color [Channels]uint8

// Colors used by the environments in this module
var (
	Black  = Color{0, 0, 0}
	Red    = Color{255, 0, 0}
	Pink   = Color{255, 192, 203}
	Blue   = Color{0, 0, 255}
	Yellow = Color{255, 255, 0}
	Green  = Color{0, 255, 0}
)

// Point is an integer voxel coordinate
type Point struct {
	X, Y, Z int
}

// Grid is a dense X × Y × Z × Channels grid of uint8 colour values,
// stored in row-major order with the channel varying fastest.
type Grid struct {
	x, y, z int
	data    []uint8
}

var _ mat.Vector = (*Grid)(nil)

// NewGrid returns a new, all-black grid of the given dimensions
func NewGrid(x, y, z int) *Grid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("newGrid: illegal dimensions (%d, %d, %d)", x, y,
			z))
	}
	return &Grid{x, y, z, make([]uint8, x*y*z*Channels)}
}

// FromData returns a grid which uses data as its backing slice
func FromData(x, y, z int, data []uint8) (*Grid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("fromData: illegal dimensions (%d, %d, %d)",
			x, y, z)
	}
	if len(data) != x*y*z*Channels {
		return nil, fmt.Errorf("fromData: data length %d does not match "+
			"shape (%d, %d, %d, %d)", len(data), x, y, z, Channels)
	}
	return &Grid{x, y, z, data}, nil
}

// Shape returns the spatial dimensions of the grid
func (g *Grid) Shape() (x, y, z int) {
	return g.x, g.y, g.z
}

// Raw returns the backing slice of the grid
func (g *Grid) Raw() []uint8 {
	return g.data
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	data := make([]uint8, len(g.data))
	copy(data, g.data)
	return &Grid{g.x, g.y, g.z, data}
}

// Contains returns whether (x, y, z) lies inside the grid
func (g *Grid) Contains(x, y, z int) bool {
	return x >= 0 && x < g.x && y >= 0 && y < g.y && z >= 0 && z < g.z
}

func (g *Grid) offset(x, y, z int) int {
	if !g.Contains(x, y, z) {
		panic(fmt.Sprintf("voxel: index (%d, %d, %d) out of range (%d, %d, "+
			"%d)", x, y, z, g.x, g.y, g.z))
	}
	return ((x*g.y+y)*g.z + z) * Channels
}

// Voxel returns the colour at (x, y, z)
func (g *Grid) Voxel(x, y, z int) Color {
	i := g.offset(x, y, z)
	return Color{g.data[i], g.data[i+1], g.data[i+2]}
}

// SetVoxel sets the colour at (x, y, z)
func (g *Grid) SetVoxel(x, y, z int, c Color) {
	i := g.offset(x, y, z)
	copy(g.data[i:i+Channels], c[:])
}

// Fill sets every voxel of the box [x0, x1) × [y0, y1) × [z0, z1) to c
func (g *Grid) Fill(x0, x1, y0, y1, z0, z1 int, c Color) {
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			for z := z0; z < z1; z++ {
				g.SetVoxel(x, y, z, c)
			}
		}
	}
}

// Paste overwrites the region of g starting at (x, y, z) with the whole
// of src. The region must lie inside g.
func (g *Grid) Paste(x, y, z int, src *Grid) {
	if !g.Contains(x, y, z) || !g.Contains(x+src.x-1, y+src.y-1, z+src.z-1) {
		panic(fmt.Sprintf("paste: (%d, %d, %d) grid cannot be placed at "+
			"(%d, %d, %d) in (%d, %d, %d) grid", src.x, src.y, src.z, x, y, z,
			g.x, g.y, g.z))
	}

	// Rows along z are contiguous in both grids
	row := src.z * Channels
	for i := 0; i < src.x; i++ {
		for j := 0; j < src.y; j++ {
			dst := g.offset(x+i, y+j, z)
			from := src.offset(i, j, 0)
			copy(g.data[dst:dst+row], src.data[from:from+row])
		}
	}
}

// Where returns the coordinates and colours of all voxels for which
// keep returns true, in row-major order
func (g *Grid) Where(keep func(Color) bool) ([]Point, []Color) {
	var points []Point
	var colors []Color

	for x := 0; x < g.x; x++ {
		for y := 0; y < g.y; y++ {
			for z := 0; z < g.z; z++ {
				c := g.Voxel(x, y, z)
				if keep(c) {
					points = append(points, Point{x, y, z})
					colors = append(colors, c)
				}
			}
		}
	}
	return points, colors
}

// Dims returns the dimensions of the grid viewed as a column vector
func (g *Grid) Dims() (r, c int) {
	return len(g.data), 1
}

// At returns the flattened element at (i, 0)
func (g *Grid) At(i, j int) float64 {
	if j != 0 {
		panic(mat.ErrColAccess)
	}
	return g.AtVec(i)
}

// AtVec returns the flattened element at index i
func (g *Grid) AtVec(i int) float64 {
	return float64(g.data[i])
}

// Len returns the number of flattened elements in the grid
func (g *Grid) Len() int {
	return len(g.data)
}

// T returns the transpose of the grid viewed as a column vector
func (g *Grid) T() mat.Matrix {
	return mat.TransposeVec{Vector: g}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%d, %d, %d, %d)", g.x, g.y, g.z, Channels)
}
