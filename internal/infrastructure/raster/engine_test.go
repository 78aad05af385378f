package raster

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

// fillRect marks r as foreground.
func fillRect(m *entity.Mask, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
}

func TestFindObjects_TwoBlobs(t *testing.T) {
	m := entity.NewMask(40, 20)
	fillRect(m, image.Rect(2, 2, 8, 8))
	fillRect(m, image.Rect(20, 5, 30, 15))

	set, err := NewEngine().FindObjects(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, set.Objects, 2)
	require.Equal(t, 36, set.Objects[0].Area())
	require.Equal(t, image.Rect(2, 2, 8, 8), set.Objects[0].Bounds)
	require.Equal(t, image.Rect(20, 5, 30, 15), set.Objects[1].Bounds)
	require.Equal(t, 1, set.Objects[1].ID)
}

func TestFindObjects_DiagonalIsConnected(t *testing.T) {
	m := entity.NewMask(3, 3)
	m.Set(0, 0, true)
	m.Set(1, 1, true)
	m.Set(2, 2, true)
	set, err := NewEngine().FindObjects(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, set.Objects, 1)
}

func TestFindObjects_EmptyMask(t *testing.T) {
	_, err := NewEngine().FindObjects(context.Background(), entity.NewMask(0, 0))
	require.ErrorIs(t, err, entity.ErrEmptyMask)
}

func TestFilterObjects_Modes(t *testing.T) {
	m := entity.NewMask(50, 30)
	fillRect(m, image.Rect(5, 5, 15, 15))   // 100 px, straddles the roi edge
	fillRect(m, image.Rect(12, 18, 14, 20)) // 4 px, fully inside
	ctx := context.Background()
	e := NewEngine()
	set, err := e.FindObjects(ctx, m)
	require.NoError(t, err)

	roi := entity.ROI{Label: "pot", Shape: entity.Rectangle(10, 10, 10, 12)}

	cut, err := e.FilterObjects(ctx, set, roi, entity.ModeCutTo)
	require.NoError(t, err)
	require.Equal(t, 25+4, cut.Area)
	require.Len(t, cut.Objects, 2)
	require.Equal(t, image.Rect(10, 10, 15, 15), cut.Objects[0].Bounds)
	require.Equal(t, "pot", cut.Label)

	partial, err := e.FilterObjects(ctx, set, roi, entity.ModePartial)
	require.NoError(t, err)
	require.Equal(t, 104, partial.Area)

	big, err := e.FilterObjects(ctx, set, roi, entity.ModeLargest)
	require.NoError(t, err)
	require.Equal(t, 100, big.Area)
	require.Len(t, big.Objects, 1)
}

func TestFilterObjects_EmptyROI(t *testing.T) {
	m := entity.NewMask(30, 30)
	fillRect(m, image.Rect(0, 0, 5, 5))
	ctx := context.Background()
	e := NewEngine()
	set, err := e.FindObjects(ctx, m)
	require.NoError(t, err)

	f, err := e.FilterObjects(ctx, set, entity.ROI{Label: "x", Shape: entity.Circle(20, 20, 4)}, entity.ModeCutTo)
	require.NoError(t, err)
	require.True(t, f.Empty())
	require.Empty(t, f.Objects)
}

func TestFilterObjects_OutOfBounds(t *testing.T) {
	m := entity.NewMask(10, 10)
	m.Set(1, 1, true)
	ctx := context.Background()
	e := NewEngine()
	set, err := e.FindObjects(ctx, m)
	require.NoError(t, err)

	_, err = e.FilterObjects(ctx, set, entity.ROI{Label: "edge", Shape: entity.Circle(2, 2, 5)}, entity.ModeCutTo)
	require.ErrorIs(t, err, entity.ErrROIOutOfBounds)

	_, err = e.FilterObjects(ctx, set, entity.ROI{Label: "ok", Shape: entity.Circle(5, 5, 2)}, "nope")
	require.ErrorIs(t, err, entity.ErrUnknownMode)
}
