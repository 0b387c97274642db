package voxelworld

import "github.com/samuelfneumann/robotworld/voxel"

// Extents of the human figure along each grid axis: height, width and
// depth
const (
	HumanHeight int = 10
	HumanWidth  int = 5
	HumanDepth  int = 2
)

// HumanShape returns a new voxel figure of a standing human with a pink
// head, blue body, yellow arms and green legs. Every depth slice is
// identical; the first axis runs from the feet (0) to the head.
func HumanShape() *voxel.Grid {
	g := voxel.NewGrid(HumanHeight, HumanWidth, HumanDepth)

	// Head
	g.Fill(8, 10, 2, 4, 0, HumanDepth, voxel.Pink)

	// Body
	g.Fill(4, 8, 1, 4, 0, HumanDepth, voxel.Blue)

	// Arms
	g.Fill(5, 7, 0, 1, 0, HumanDepth, voxel.Yellow)
	g.Fill(5, 7, 4, 5, 0, HumanDepth, voxel.Yellow)

	// Legs
	g.Fill(0, 4, 1, 2, 0, HumanDepth, voxel.Green)
	g.Fill(0, 4, 3, 4, 0, HumanDepth, voxel.Green)

	return g
}
