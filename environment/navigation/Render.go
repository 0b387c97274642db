package navigation

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

// Arena cells per side in the text rendering
const renderCells int = 20

// Render writes a text-based top-down view of the arena to w. Each
// character covers a square of the arena; the robot is drawn as R, the
// goal as G and obstacles as X, with the origin at the bottom left. If
// colour is true, ANSI colour codes are added.
func (n *Navigation) Render(w io.Writer, colour bool) error {
	au := aurora.NewAurora(colour)
	cellSize := (MaxCoordinate - MinCoordinate) / float64(renderCells)

	cell := func(x, y float64) (int, int, bool) {
		col := int((x - MinCoordinate) / cellSize)
		row := int((y - MinCoordinate) / cellSize)
		if x < MinCoordinate || y < MinCoordinate || col > renderCells ||
			row > renderCells {
			return 0, 0, false
		}
		// The far boundary belongs to the last cell
		if col == renderCells {
			col--
		}
		if row == renderCells {
			row--
		}
		return col, row, true
	}

	grid := make([][]aurora.Value, renderCells)
	for row := range grid {
		grid[row] = make([]aurora.Value, renderCells)
		for col := range grid[row] {
			grid[row][col] = au.Faint(".")
		}
	}

	for _, o := range n.obstacles {
		if col, row, ok := cell(o.X, o.Y); ok {
			grid[row][col] = au.Red("X")
		}
	}
	if col, row, ok := cell(n.goal.X, n.goal.Y); ok {
		grid[row][col] = au.Green("G")
	}
	x, y := n.Position()
	if col, row, ok := cell(x, y); ok {
		grid[row][col] = au.Bold(au.Cyan("R"))
	}

	var builder strings.Builder
	for row := renderCells - 1; row >= 0; row-- {
		for _, v := range grid[row] {
			fmt.Fprint(&builder, v)
		}
		fmt.Fprintln(&builder)
	}
	fmt.Fprintln(&builder, n)

	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
