package raster

import (
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// Erode applies a ksize x ksize square erosion iterations times. Pixels outside
// the mask count as foreground, so borders do not erode inward.
func Erode(m *entity.Mask, ksize, iterations int) *entity.Mask {
	if ksize < 1 {
		ksize = 1
	}
	half := ksize / 2
	cur := m.Clone()
	for it := 0; it < iterations; it++ {
		next := entity.NewMask(cur.Width, cur.Height)
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				if !cur.At(x, y) {
					continue
				}
				keep := true
				for ky := y - half; ky < y-half+ksize && keep; ky++ {
					for kx := x - half; kx < x-half+ksize; kx++ {
						if kx < 0 || ky < 0 || kx >= cur.Width || ky >= cur.Height {
							continue
						}
						if !cur.At(kx, ky) {
							keep = false
							break
						}
					}
				}
				if keep {
					next.Pix[y*next.Width+x] = 255
				}
			}
		}
		cur = next
	}
	return cur
}

// Dilate is the dual of Erode; pixels outside the mask count as background.
func Dilate(m *entity.Mask, ksize, iterations int) *entity.Mask {
	if ksize < 1 {
		ksize = 1
	}
	half := ksize / 2
	cur := m.Clone()
	for it := 0; it < iterations; it++ {
		next := entity.NewMask(cur.Width, cur.Height)
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				if !cur.At(x, y) {
					continue
				}
				for ky := y - half; ky < y-half+ksize; ky++ {
					for kx := x - half; kx < x-half+ksize; kx++ {
						next.Set(kx, ky, true)
					}
				}
			}
		}
		cur = next
	}
	return cur
}

// MedianBlur applies a size x size median filter to a binary mask with
// reflected borders. Even sizes are allowed; the window then extends one pixel
// further up and left than down and right.
func MedianBlur(m *entity.Mask, size int) *entity.Mask {
	if size <= 1 {
		return m.Clone()
	}
	pad := size
	pw, ph := m.Width+2*pad, m.Height+2*pad

	// Summed-area table over the reflected, padded mask.
	sat := make([]int, (pw+1)*(ph+1))
	for y := 0; y < ph; y++ {
		sy := reflect(y-pad, m.Height)
		row := 0
		for x := 0; x < pw; x++ {
			sx := reflect(x-pad, m.Width)
			if m.Pix[sy*m.Width+sx] != 0 {
				row++
			}
			sat[(y+1)*(pw+1)+x+1] = sat[y*(pw+1)+x+1] + row
		}
	}

	n := size * size
	need := n - n/2
	before := size / 2
	out := entity.NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		y0 := y + pad - before
		y1 := y0 + size
		for x := 0; x < m.Width; x++ {
			x0 := x + pad - before
			x1 := x0 + size
			count := sat[y1*(pw+1)+x1] - sat[y0*(pw+1)+x1] - sat[y1*(pw+1)+x0] + sat[y0*(pw+1)+x0]
			if count >= need {
				out.Pix[y*out.Width+x] = 255
			}
		}
	}
	return out
}

// reflect maps i into [0, n) mirroring about the edges (d c b a | a b c d).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// FillHoles turns every background region not connected to the image border
// into foreground.
func FillHoles(m *entity.Mask) *entity.Mask {
	outside := make([]bool, len(m.Pix))
	var stack []image.Point
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
			return
		}
		i := y*m.Width + x
		if outside[i] || m.Pix[i] != 0 {
			return
		}
		outside[i] = true
		stack = append(stack, image.Point{X: x, Y: y})
	}
	for x := 0; x < m.Width; x++ {
		push(x, 0)
		push(x, m.Height-1)
	}
	for y := 0; y < m.Height; y++ {
		push(0, y)
		push(m.Width-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	out := entity.NewMask(m.Width, m.Height)
	for i := range out.Pix {
		if !outside[i] {
			out.Pix[i] = 255
		}
	}
	return out
}
