package render

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/robotworld/voxel"
)

// HTML renders voxel scenes as an interactive 3D scatter plot saved to
// an HTML file. HTML implements the voxelworld.Renderer interface.
type HTML struct {
	Filename string
}

// NewHTML returns an HTML renderer writing to filename
func NewHTML(filename string) *HTML {
	return &HTML{Filename: filename}
}

// Display builds the chart for the scene and saves it
func (h *HTML) Display(scene voxel.Scene) error {
	f, err := os.Create(h.Filename)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if err := Scatter3D(scene).Render(f); err != nil {
		f.Close()
		return fmt.Errorf("display: %w", err)
	}
	return f.Close()
}

// Scatter3D returns a 3D scatter chart with one series for the scene's
// points and one series per marker
func Scatter3D(scene voxel.Scene) *charts.Scatter3D {
	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: scene.Title}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Min: 0,
			Max: scene.Bounds.X}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Min: 0,
			Max: scene.Bounds.Y}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Min: 0,
			Max: scene.Bounds.Z}),
	)

	points := make([]opts.Chart3DData, len(scene.Points))
	for i, pt := range scene.Points {
		c := scene.Colors[i]
		points[i] = opts.Chart3DData{
			Value: []interface{}{pt.X, pt.Y, pt.Z},
			ItemStyle: &opts.ItemStyle{
				Color: fmt.Sprintf("rgb(%d,%d,%d)", c[0], c[1], c[2]),
			},
		}
	}
	scatter.AddSeries("voxels", points)

	labels := make([]string, 0, len(scene.Markers))
	for label := range scene.Markers {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		pt := scene.Markers[label]
		r, g, b, _ := markerColour(label).RGBA()
		scatter.AddSeries(label, []opts.Chart3DData{{
			Name:  label,
			Value: []interface{}{pt.X, pt.Y, pt.Z},
			ItemStyle: &opts.ItemStyle{
				Color: fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8),
			},
		}})
	}
	return scatter
}
