package raster

import (
	"context"
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// LabSegmenter masks plants on an RGB image by thresholding one L*a*b* channel,
// then cleans the mask with erosion, a median filter and hole filling.
type LabSegmenter struct {
	Channel         LabChannel
	Threshold       uint8
	Object          ObjectType
	ErodeKernel     int
	ErodeIterations int
	MedianSize      int
}

// NewThermalRGBSegmenter returns the settings used for the thermal tray's
// registered RGB companion images.
func NewThermalRGBSegmenter() *LabSegmenter {
	return &LabSegmenter{
		Channel:         LabA,
		Threshold:       118,
		Object:          Dark,
		ErodeKernel:     3,
		ErodeIterations: 4,
		MedianSize:      12,
	}
}

func (s *LabSegmenter) Segment(ctx context.Context, img image.Image) (*entity.Mask, error) {
	_ = ctx
	if img.Bounds().Empty() {
		return nil, entity.ErrEmptyMask
	}
	bin := Binary(RGBToLabGray(img, s.Channel), s.Threshold, s.Object)
	eroded := Erode(bin, s.ErodeKernel, s.ErodeIterations)
	blurred := MedianBlur(eroded, s.MedianSize)
	return FillHoles(blurred), nil
}

// OtsuSegmenter masks a grayscale (chlorophyll) frame with Otsu's threshold,
// fills holes and erodes.
type OtsuSegmenter struct {
	Object          ObjectType
	ErodeKernel     int
	ErodeIterations int
}

// NewChlorophyllSegmenter returns the settings for chlorophyll fluorescence frames.
func NewChlorophyllSegmenter() *OtsuSegmenter {
	return &OtsuSegmenter{Object: Light, ErodeKernel: 3, ErodeIterations: 1}
}

func (s *OtsuSegmenter) Segment(ctx context.Context, img image.Image) (*entity.Mask, error) {
	_ = ctx
	if img.Bounds().Empty() {
		return nil, entity.ErrEmptyMask
	}
	mask := FillHoles(Otsu(ToGray(img), s.Object))
	return Erode(mask, s.ErodeKernel, s.ErodeIterations), nil
}
