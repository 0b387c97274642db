package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"
)

const (
	progressWidth  int = 1200
	progressHeight int = 500
)

var lineColour = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Progress saves a two panel figure of episode rewards and episode
// lengths to filename
func Progress(filename string, rewards, lengths []float64) error {
	dc := DrawProgress(rewards, lengths, progressWidth, progressHeight)
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	return nil
}

// DrawProgress draws the episode rewards and lengths side by side
func DrawProgress(rewards, lengths []float64, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	w := float64(width) / 2
	drawPanel(dc, 0, w, float64(height), rewards, "Episode Rewards",
		"Total Reward")
	drawPanel(dc, w, w, float64(height), lengths, "Episode Lengths", "Steps")
	return dc
}

// drawPanel draws a line plot of data in the panel starting at x0
func drawPanel(dc *gg.Context, x0, w, h float64, data []float64, title,
	ylabel string) {
	left, right := x0+margin*1.5, x0+w-margin/2
	top, bottom := margin+titleHeight/2, h-margin

	dc.SetColor(textColour)
	dc.DrawStringAnchored(title, x0+w/2, margin/2, 0.5, 0.5)
	dc.DrawStringAnchored("Episode", (left+right)/2, h-margin/3, 0.5, 0.5)
	dc.DrawStringAnchored(ylabel, x0+4, (top+bottom)/2, 0, 0.5)

	dc.SetColor(axisColour)
	dc.SetLineWidth(1)
	dc.DrawRectangle(left, top, right-left, bottom-top)
	dc.Stroke()

	if len(data) == 0 {
		return
	}

	lo, hi := floats.Min(data), floats.Max(data)
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	dc.SetColor(textColour)
	dc.DrawStringAnchored(fmt.Sprintf("%.4g", hi), left-2, top, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.4g", lo), left-2, bottom, 1, 0.5)

	span := float64(max(len(data)-1, 1))
	for i, d := range data {
		x := left + float64(i)/span*(right-left)
		y := bottom - (d-lo)/(hi-lo)*(bottom-top)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.SetColor(lineColour)
	dc.SetLineWidth(1.5)
	dc.Stroke()
}
