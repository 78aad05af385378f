//go:build !gocv

package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

func TestStubEngine_ReportsMissingTag(t *testing.T) {
	e := NewGoCVEngine()
	ctx := context.Background()
	require.Equal(t, "gocv", e.Name())

	_, err := e.FindObjects(ctx, entity.NewMask(2, 2))
	require.ErrorIs(t, err, ErrNotEnabled)
	_, err = e.FilterObjects(ctx, &entity.ObjectSet{}, entity.ROI{}, entity.ModeCutTo)
	require.ErrorIs(t, err, ErrNotEnabled)
	_, err = e.Segment(ctx, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.ErrorIs(t, err, ErrNotEnabled)
}

func TestStubChlorophyllSegmenter_ReportsMissingTag(t *testing.T) {
	s := NewChlorophyllSegmenter()
	require.Equal(t, 3, s.ErodeKernel)
	require.Equal(t, 1, s.ErodeIterations)

	_, err := s.Segment(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2)))
	require.ErrorIs(t, err, ErrNotEnabled)
}
