package visualize

import (
	"image"
	"image/color"
	"math"

	"plant-phenotyper/internal/domain/entity"
)

// Background selects what is drawn outside the mask.
type Background string

const (
	BackgroundImage Background = "image"
	BackgroundBlack Background = "black"
	BackgroundWhite Background = "white"
)

// BadColor marks non-finite pixels inside the mask.
var BadColor = color.RGBA{R: 255, A: 255}

// PseudocolorOptions configures Pseudocolor.
type PseudocolorOptions struct {
	Colormap   Colormap
	Min, Max   float64
	Background Background
}

// Pseudocolor maps grid values in [Min, Max] through the colormap. Pixels outside
// mask (when given) get the background; BackgroundImage draws the grid itself in
// grayscale over the same range.
func Pseudocolor(g *entity.Grid, mask *entity.Mask, opts PseudocolorOptions) *image.RGBA {
	cmap := opts.Colormap
	if cmap == nil {
		cmap = Viridis
	}
	span := opts.Max - opts.Min
	norm := func(v float64) float64 {
		if span <= 0 {
			return 0
		}
		return (v - opts.Min) / span
	}

	out := image.NewRGBA(g.Bounds())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.At(x, y)
			if mask != nil && !mask.At(x, y) {
				out.SetRGBA(x, y, background(opts.Background, norm(v)))
				continue
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				out.SetRGBA(x, y, BadColor)
				continue
			}
			out.SetRGBA(x, y, cmap(norm(v)))
		}
	}
	return out
}

func background(bg Background, t float64) color.RGBA {
	switch bg {
	case BackgroundWhite:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case BackgroundBlack:
		return color.RGBA{A: 255}
	}
	return Gray(t)
}
