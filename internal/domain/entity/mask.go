package entity

import (
	"fmt"
	"image"
	"image/color"
)

// Mask is a binary raster: 255 marks foreground (plant) pixels, 0 background.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8 // row-major, len == Width*Height
}

// NewMask allocates an all-background mask.
func NewMask(width, height int) *Mask {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// MaskFromGray binarizes a grayscale image: any non-zero pixel is foreground.
func MaskFromGray(img *image.Gray) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				m.Pix[y*m.Width+x] = 255
			}
		}
	}
	return m
}

func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Empty reports whether the mask has zero size.
func (m *Mask) Empty() bool {
	return m == nil || m.Width == 0 || m.Height == 0
}

// At reports whether (x, y) is foreground. Out of range points are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = 255
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// Area counts foreground pixels.
func (m *Mask) Area() int {
	n := 0
	for _, p := range m.Pix {
		if p != 0 {
			n++
		}
	}
	return n
}

func (m *Mask) Clone() *Mask {
	c := &Mask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(c.Pix, m.Pix)
	return c
}

// And returns the pixelwise intersection of two equally sized masks.
func (m *Mask) And(other *Mask) (*Mask, error) {
	if m.Width != other.Width || m.Height != other.Height {
		return nil, fmt.Errorf("and %dx%d with %dx%d: %w", m.Width, m.Height, other.Width, other.Height, ErrSizeMismatch)
	}
	out := NewMask(m.Width, m.Height)
	for i := range m.Pix {
		if m.Pix[i] != 0 && other.Pix[i] != 0 {
			out.Pix[i] = 255
		}
	}
	return out, nil
}

// Crop returns the part of the mask inside r, clipped to the mask bounds.
func (m *Mask) Crop(r image.Rectangle) *Mask {
	r = r.Intersect(m.Bounds())
	out := NewMask(r.Dx(), r.Dy())
	for y := 0; y < out.Height; y++ {
		copy(out.Pix[y*out.Width:(y+1)*out.Width], m.Pix[(r.Min.Y+y)*m.Width+r.Min.X:(r.Min.Y+y)*m.Width+r.Max.X])
	}
	return out
}

// ToGray renders the mask as an 8-bit image, e.g. for debug output.
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(m.Bounds())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: m.Pix[y*m.Width+x]})
		}
	}
	return img
}
