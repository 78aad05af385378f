package raster

import (
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// ObjectType tells thresholding whether the plant is lighter or darker than the
// background.
type ObjectType string

const (
	Light ObjectType = "light"
	Dark  ObjectType = "dark"
)

// Binary thresholds a grayscale image. Light objects keep pixels > threshold,
// dark objects keep pixels <= threshold.
func Binary(gray *image.Gray, threshold uint8, object ObjectType) *entity.Mask {
	b := gray.Bounds()
	m := entity.NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			on := v > threshold
			if object == Dark {
				on = !on
			}
			if on {
				m.Pix[y*m.Width+x] = 255
			}
		}
	}
	return m
}

// OtsuThreshold returns the threshold maximizing between-class variance of the
// 256-bin histogram.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]float64
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	total := float64(b.Dx() * b.Dy())
	if total == 0 {
		return 0
	}
	var sumAll float64
	for i, h := range hist {
		sumAll += float64(i) * h
	}

	var (
		w0, sum0    float64
		best        uint8
		maxVariance float64
	)
	for t := 0; t < 256; t++ {
		w0 += hist[t]
		if w0 == 0 {
			continue
		}
		w1 := total - w0
		if w1 == 0 {
			break
		}
		sum0 += float64(t) * hist[t]
		mean0 := sum0 / w0
		mean1 := (sumAll - sum0) / w1
		diff := mean0 - mean1
		variance := w0 * w1 * diff * diff
		if variance > maxVariance {
			maxVariance = variance
			best = uint8(t)
		}
	}
	return best
}

// Otsu thresholds with the automatically selected Otsu level.
func Otsu(gray *image.Gray, object ObjectType) *entity.Mask {
	return Binary(gray, OtsuThreshold(gray), object)
}
