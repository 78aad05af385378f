//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// ErrNotEnabled is returned by every method when built without the gocv tag.
var ErrNotEnabled = errors.New("gocv build tag is not enabled")

// GoCVEngine is a placeholder (no OpenCV available).
type GoCVEngine struct {
	LabThreshold    float32
	ErodeKernel     int
	ErodeIterations int
	MedianSize      int
}

// NewGoCVEngine returns the placeholder engine.
func NewGoCVEngine() *GoCVEngine {
	return &GoCVEngine{
		LabThreshold:    118,
		ErodeKernel:     3,
		ErodeIterations: 4,
		MedianSize:      13,
	}
}

func (e *GoCVEngine) Name() string {
	return "gocv"
}

// FindObjects returns an error, the build has no gocv tag.
func (e *GoCVEngine) FindObjects(ctx context.Context, mask *entity.Mask) (*entity.ObjectSet, error) {
	_ = ctx
	_ = mask
	return nil, ErrNotEnabled
}

// FilterObjects returns an error, the build has no gocv tag.
func (e *GoCVEngine) FilterObjects(ctx context.Context, objects *entity.ObjectSet, roi entity.ROI, mode entity.FilterMode) (*entity.FilteredObject, error) {
	_ = ctx
	_ = objects
	_ = roi
	_ = mode
	return nil, ErrNotEnabled
}

// Segment returns an error, the build has no gocv tag.
func (e *GoCVEngine) Segment(ctx context.Context, img image.Image) (*entity.Mask, error) {
	_ = ctx
	_ = img
	return nil, ErrNotEnabled
}

// OtsuSegmenter is a placeholder (no OpenCV available).
type OtsuSegmenter struct {
	ErodeKernel     int
	ErodeIterations int
}

// NewChlorophyllSegmenter returns the placeholder segmenter.
func NewChlorophyllSegmenter() *OtsuSegmenter {
	return &OtsuSegmenter{ErodeKernel: 3, ErodeIterations: 1}
}

// Segment returns an error, the build has no gocv tag.
func (s *OtsuSegmenter) Segment(ctx context.Context, img image.Image) (*entity.Mask, error) {
	_ = ctx
	_ = img
	return nil, ErrNotEnabled
}
