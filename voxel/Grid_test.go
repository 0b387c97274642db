package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGridVoxels(t *testing.T) {
	g := NewGrid(4, 5, 6)
	x, y, z := g.Shape()
	require.Equal(t, []int{4, 5, 6}, []int{x, y, z})
	require.Equal(t, 4*5*6*Channels, g.Len())

	g.SetVoxel(3, 4, 5, Pink)
	assert.Equal(t, Pink, g.Voxel(3, 4, 5))
	assert.Equal(t, Black, g.Voxel(0, 0, 0))

	// The last voxel occupies the last three flattened elements
	assert.Equal(t, 255.0, g.AtVec(g.Len()-3))
	assert.Equal(t, 192.0, g.AtVec(g.Len()-2))
	assert.Equal(t, 203.0, g.At(g.Len()-1, 0))

	assert.Panics(t, func() { g.Voxel(4, 0, 0) })
	assert.Panics(t, func() { g.At(0, 1) })
}

func TestGridIsVector(t *testing.T) {
	g := NewGrid(1, 1, 2)
	g.SetVoxel(0, 0, 1, Color{1, 2, 3})

	var v mat.Vector = g
	r, c := v.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 1, c)

	tr, tc := v.T().Dims()
	assert.Equal(t, 1, tr)
	assert.Equal(t, 6, tc)

	// Copying through gonum works on the read-only view
	dense := mat.VecDenseCopyOf(v)
	assert.Equal(t, []float64{0, 0, 0, 1, 2, 3}, dense.RawVector().Data)
}

func TestFromData(t *testing.T) {
	_, err := FromData(2, 2, 2, make([]uint8, 5))
	require.Error(t, err)

	g, err := FromData(2, 2, 2, make([]uint8, 24))
	require.NoError(t, err)
	g.SetVoxel(1, 1, 1, Red)
	assert.Equal(t, uint8(255), g.Raw()[21])
}

func TestClone(t *testing.T) {
	g := NewGrid(2, 2, 2)
	c := g.Clone()
	c.SetVoxel(0, 0, 0, Red)

	assert.Equal(t, Black, g.Voxel(0, 0, 0))
	assert.Equal(t, Red, c.Voxel(0, 0, 0))
}

func TestPaste(t *testing.T) {
	g := NewGrid(8, 8, 8)
	g.Fill(0, 8, 0, 8, 0, 8, Blue)

	src := NewGrid(2, 3, 2)
	src.SetVoxel(1, 2, 1, Red)
	g.Paste(5, 4, 6, src)

	assert.Equal(t, Red, g.Voxel(6, 6, 7))
	assert.Equal(t, Black, g.Voxel(5, 4, 6))
	assert.Equal(t, Blue, g.Voxel(4, 4, 6))
	assert.Equal(t, Blue, g.Voxel(7, 7, 7))

	assert.Panics(t, func() { g.Paste(7, 0, 0, src) })
}

func TestWhereAndScene(t *testing.T) {
	g := NewGrid(3, 3, 3)
	g.SetVoxel(0, 1, 2, Red)
	g.SetVoxel(2, 2, 2, Green)

	points, colors := g.Where(Matches(Red))
	require.Len(t, points, 1)
	assert.Equal(t, Point{0, 1, 2}, points[0])
	assert.Equal(t, Red, colors[0])

	s := NewScene("all", g, NonZero)
	assert.Len(t, s.Points, 2)
	assert.Equal(t, Point{3, 3, 3}, s.Bounds)
	assert.Equal(t, "all", s.Title)
}
