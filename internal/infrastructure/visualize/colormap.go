// Package visualize renders measurement grids as pseudocolor images and writes
// them to disk.
package visualize

import (
	"fmt"
	"image/color"
	"math"
)

// Colormap maps a normalized value in [0, 1] to a color.
type Colormap func(t float64) color.RGBA

// anchors interpolates linearly between evenly spaced RGB anchor colors.
func anchors(stops ...[3]uint8) Colormap {
	return func(t float64) color.RGBA {
		t = clamp01(t)
		pos := t * float64(len(stops)-1)
		i := int(math.Floor(pos))
		if i >= len(stops)-1 {
			i = len(stops) - 2
		}
		f := pos - float64(i)
		a, b := stops[i], stops[i+1]
		lerp := func(x, y uint8) uint8 {
			return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
		}
		return color.RGBA{R: lerp(a[0], b[0]), G: lerp(a[1], b[1]), B: lerp(a[2], b[2]), A: 255}
	}
}

// Jet is the classic blue-cyan-yellow-red map.
func Jet(t float64) color.RGBA {
	t = clamp01(t)
	ch := func(offset float64) uint8 {
		v := 1.5 - math.Abs(4*t-offset)
		return uint8(math.Round(clamp01(v) * 255))
	}
	return color.RGBA{R: ch(3), G: ch(2), B: ch(1), A: 255}
}

var (
	Viridis = anchors(
		[3]uint8{68, 1, 84},
		[3]uint8{59, 82, 139},
		[3]uint8{33, 145, 140},
		[3]uint8{94, 201, 98},
		[3]uint8{253, 231, 37},
	)
	Greens = anchors(
		[3]uint8{247, 252, 245},
		[3]uint8{161, 217, 155},
		[3]uint8{65, 171, 93},
		[3]uint8{0, 68, 27},
	)
	Purples = anchors(
		[3]uint8{252, 251, 253},
		[3]uint8{188, 189, 220},
		[3]uint8{128, 125, 186},
		[3]uint8{63, 0, 125},
	)
	Gray = anchors([3]uint8{0, 0, 0}, [3]uint8{255, 255, 255})
)

// ColormapByName resolves a --cmap name. An empty name is viridis.
func ColormapByName(name string) (Colormap, error) {
	switch name {
	case "jet":
		return Jet, nil
	case "viridis", "":
		return Viridis, nil
	case "greens", "Greens":
		return Greens, nil
	case "purples", "Purples":
		return Purples, nil
	case "gray":
		return Gray, nil
	}
	return nil, fmt.Errorf("unknown colormap %q", name)
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
