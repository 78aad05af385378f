package raster

import (
	"image"
	"math"
)

// LabChannel selects one channel of the CIE L*a*b* color space.
type LabChannel byte

const (
	LabL LabChannel = 'l'
	LabA LabChannel = 'a'
	LabB LabChannel = 'b'
)

// RGBToLabGray converts an image to one 8-bit L*a*b* channel using the 8-bit
// encoding OpenCV uses: L scaled to [0, 255], a and b offset by 128.
func RGBToLabGray(img image.Image, ch LabChannel) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			l, a, bb := rgbToLab(float64(r)/65535, float64(g)/65535, float64(bl)/65535)
			var v float64
			switch ch {
			case LabL:
				v = l * 255 / 100
			case LabA:
				v = a + 128
			default:
				v = bb + 128
			}
			out.Pix[y*out.Stride+x] = clampByte(v)
		}
	}
	return out
}

// ToGray converts any image to 8-bit luminance.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)
			out.Pix[y*out.Stride+x] = clampByte(lum / 257)
		}
	}
	return out
}

func rgbToLab(r, g, b float64) (l, a, bb float64) {
	r, g, b = linearize(r), linearize(g), linearize(b)

	// sRGB D65 -> XYZ, normalized by the reference white.
	x := (0.412453*r + 0.357580*g + 0.180423*b) / 0.950456
	y := 0.212671*r + 0.715160*g + 0.072169*b
	z := (0.019334*r + 0.119193*g + 0.950227*b) / 1.088754

	fx, fy, fz := labF(x), labF(y), labF(z)
	if y > 0.008856 {
		l = 116*math.Cbrt(y) - 16
	} else {
		l = 903.3 * y
	}
	return l, 500 * (fx - fy), 200 * (fy - fz)
}

func linearize(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
