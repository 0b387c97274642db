package voxel

// Scene is the renderable content of a voxel grid: a set of coloured
// points inside a bounding box, with a caption
type Scene struct {
	Title  string
	Bounds Point
	Points []Point
	Colors []Color

	// Markers are highlighted positions drawn on top of the points,
	// keyed by label
	Markers map[string]Point
}

// NewScene returns a scene holding the voxels of g for which keep
// returns true
func NewScene(title string, g *Grid, keep func(Color) bool) Scene {
	x, y, z := g.Shape()
	points, colors := g.Where(keep)

	return Scene{
		Title:   title,
		Bounds:  Point{x, y, z},
		Points:  points,
		Colors:  colors,
		Markers: map[string]Point{},
	}
}

// NonZero returns whether c has any non-zero channel
func NonZero(c Color) bool {
	return c != Black
}

// Matches returns a predicate reporting whether a colour equals c
func Matches(c Color) func(Color) bool {
	return func(other Color) bool {
		return other == c
	}
}
