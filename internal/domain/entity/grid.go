package entity

import (
	"image"
	"math"
)

// Grid is a single-channel float raster: thermal readings, grayscale intensities,
// spectral index values or efficiency estimates, aligned pixel for pixel with a Mask.
type Grid struct {
	Width  int
	Height int
	Values []float64 // row-major
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

func (g *Grid) Set(x, y int, v float64) {
	g.Values[y*g.Width+x] = v
}

// SameSize reports whether the grid is aligned with the mask.
func (g *Grid) SameSize(m *Mask) bool {
	return m != nil && g.Width == m.Width && g.Height == m.Height
}

// Masked returns the finite values under the foreground of m, in row-major order.
func (g *Grid) Masked(m *Mask) []float64 {
	vals := make([]float64, 0, m.Area())
	for i, p := range m.Pix {
		if p == 0 {
			continue
		}
		v := g.Values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

// Crop returns the part of the grid inside r, clipped to the grid bounds.
func (g *Grid) Crop(r image.Rectangle) *Grid {
	r = r.Intersect(g.Bounds())
	out := NewGrid(r.Dx(), r.Dy())
	for y := 0; y < out.Height; y++ {
		copy(out.Values[y*out.Width:(y+1)*out.Width], g.Values[(r.Min.Y+y)*g.Width+r.Min.X:(r.Min.Y+y)*g.Width+r.Max.X])
	}
	return out
}

// ToGray linearly rescales [lo, hi] into [0, 255], clamping outside values.
func (g *Grid) ToGray(lo, hi float64) *image.Gray {
	img := image.NewGray(g.Bounds())
	span := hi - lo
	for i, v := range g.Values {
		var n float64
		if span > 0 {
			n = (v - lo) / span
		}
		img.Pix[i] = uint8(math.Round(clamp01(n) * 255))
	}
	return img
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
