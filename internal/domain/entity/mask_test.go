package entity

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMask_SetAtArea(t *testing.T) {
	m := NewMask(4, 3)
	m.Set(1, 1, true)
	m.Set(3, 2, true)
	m.Set(10, 10, true) // ignored
	require.True(t, m.At(1, 1))
	require.False(t, m.At(0, 0))
	require.False(t, m.At(-1, 0))
	require.Equal(t, 2, m.Area())
}

func TestMask_And(t *testing.T) {
	a := NewMask(2, 2)
	b := NewMask(2, 2)
	a.Set(0, 0, true)
	a.Set(1, 1, true)
	b.Set(1, 1, true)
	out, err := a.And(b)
	require.NoError(t, err)
	require.Equal(t, 1, out.Area())
	require.True(t, out.At(1, 1))

	_, err = a.And(NewMask(3, 3))
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestMask_CropAndGrayRoundTrip(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(2, 2, true)
	c := m.Crop(image.Rect(1, 1, 4, 4))
	require.Equal(t, 3, c.Width)
	require.True(t, c.At(1, 1))
	require.Equal(t, 1, MaskFromGray(c.ToGray()).Area())
}

func TestGrid_MaskedSkipsNaN(t *testing.T) {
	g := NewGrid(3, 1)
	g.Values = []float64{1, math.NaN(), 3}
	m := NewMask(3, 1)
	m.Set(0, 0, true)
	m.Set(1, 0, true)
	require.Equal(t, []float64{1}, g.Masked(m))
	require.True(t, g.SameSize(m))
}

func TestGrid_ToGrayClamps(t *testing.T) {
	g := NewGrid(3, 1)
	g.Values = []float64{-5, 5, 50}
	img := g.ToGray(0, 10)
	require.Equal(t, []uint8{0, 128, 255}, img.Pix)
}
