// Package render draws voxel scenes and training curves to image and
// HTML files
package render

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/robotworld/voxel"
)

// Default output filenames
const (
	EnvironmentPNG  string = "environment_visualization.png"
	EnvironmentHTML string = "environment_visualization.html"
	ProgressPNG     string = "training_progress.png"
)

const (
	margin      float64 = 40
	titleHeight float64 = 30

	// Fraction of the y axis drawn along the screen diagonal
	depth float64 = 0.5
)

var (
	background = color.White
	axisColour = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	textColour = color.Black

	markerColours = map[string]color.Color{
		"robot": color.RGBA{R: 255, A: 255},
		"human": color.RGBA{G: 160, A: 255},
	}
)

// PNG renders voxel scenes as an oblique projection saved to a PNG file.
// PNG implements the voxelworld.Renderer interface.
type PNG struct {
	Filename      string
	Width, Height int
}

// NewPNG returns a PNG renderer writing 1000 × 1000 images to filename
func NewPNG(filename string) *PNG {
	return &PNG{Filename: filename, Width: 1000, Height: 1000}
}

// Display draws the scene and saves it
func (p *PNG) Display(scene voxel.Scene) error {
	dc := Draw(scene, p.Width, p.Height)
	if err := dc.SavePNG(p.Filename); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// projection maps voxel coordinates to pixels
type projection struct {
	scale  float64
	ox, oy float64
}

func newProjection(bounds voxel.Point, width, height int) projection {
	bx, by, bz := float64(bounds.X), float64(bounds.Y), float64(bounds.Z)
	w := float64(width) - 2*margin
	h := float64(height) - 2*margin - titleHeight

	scale := min(w/(bx+depth*by), h/(bz+depth*by))
	return projection{
		scale: scale,
		ox:    margin,
		oy:    float64(height) - margin,
	}
}

func (p projection) project(x, y, z float64) (float64, float64) {
	return p.ox + (x+depth*y)*p.scale, p.oy - (z+depth*y)*p.scale
}

// Draw draws the scene onto a new width × height context. Points are
// drawn back to front, markers on top of the points.
func Draw(scene voxel.Scene, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	p := newProjection(scene.Bounds, width, height)
	drawAxes(dc, p, scene.Bounds)

	order := make([]int, len(scene.Points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := scene.Points[order[i]], scene.Points[order[j]]
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.Z < b.Z
	})

	for _, i := range order {
		pt, c := scene.Points[i], scene.Colors[i]
		u, v := p.project(float64(pt.X), float64(pt.Y), float64(pt.Z))
		dc.DrawRectangle(u, v-p.scale, p.scale, p.scale)
		dc.SetRGB255(int(c[0]), int(c[1]), int(c[2]))
		dc.Fill()
	}

	labels := make([]string, 0, len(scene.Markers))
	for label := range scene.Markers {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		drawMarker(dc, p, label, scene.Markers[label])
	}

	dc.SetColor(textColour)
	dc.DrawStringAnchored(scene.Title, float64(width)/2, margin/2, 0.5, 0.5)
	return dc
}

func drawAxes(dc *gg.Context, p projection, bounds voxel.Point) {
	dc.SetColor(axisColour)
	dc.SetLineWidth(1)

	x0, y0 := p.project(0, 0, 0)
	axes := []struct {
		label   string
		x, y, z float64
	}{
		{"X", float64(bounds.X), 0, 0},
		{"Y", 0, float64(bounds.Y), 0},
		{"Z", 0, 0, float64(bounds.Z)},
	}
	for _, axis := range axes {
		x1, y1 := p.project(axis.x, axis.y, axis.z)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
		dc.DrawStringAnchored(axis.label, x1, y1, 0.5, 1.2)
	}
}

func markerColour(label string) color.Color {
	if c, ok := markerColours[label]; ok {
		return c
	}
	return textColour
}

func drawMarker(dc *gg.Context, p projection, label string, pt voxel.Point) {
	c := markerColour(label)

	u, v := p.project(float64(pt.X)+0.5, float64(pt.Y)+0.5,
		float64(pt.Z)+0.5)
	radius := max(p.scale, 6)

	if label == "human" {
		dc.DrawRegularPolygon(3, u, v, radius, 0)
	} else {
		dc.DrawCircle(u, v, radius)
	}
	dc.SetColor(c)
	dc.FillPreserve()
	dc.SetColor(textColour)
	dc.Stroke()
	dc.DrawStringAnchored(label, u+radius+2, v, 0, 0.5)
}
