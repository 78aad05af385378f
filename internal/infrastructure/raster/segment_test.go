package raster

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabSegmenter_FindsGreenPlant(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			c := color.RGBA{R: 120, G: 100, B: 90, A: 255}
			if x >= 15 && x < 45 && y >= 15 && y < 45 {
				c = color.RGBA{R: 40, G: 170, B: 50, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	s := NewThermalRGBSegmenter()
	s.MedianSize = 3
	mask, err := s.Segment(context.Background(), img)
	require.NoError(t, err)
	require.True(t, mask.At(30, 30))
	require.False(t, mask.At(2, 2))
	require.Greater(t, mask.Area(), 400)
}

func TestOtsuSegmenter_FindsBrightPlant(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			img.SetGray(x, y, color.Gray{Y: 220})
		}
	}
	mask, err := NewChlorophyllSegmenter().Segment(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, 18*18, mask.Area())
}
