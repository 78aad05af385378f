package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShapeContains(t *testing.T) {
	c := Circle(10, 10, 3)
	require.True(t, c.Contains(10, 10))
	require.True(t, c.Contains(13, 10))
	require.False(t, c.Contains(13, 13))

	r := Rectangle(2, 2, 3, 3)
	require.True(t, r.Contains(2, 2))
	require.True(t, r.Contains(4, 4))
	require.False(t, r.Contains(5, 5))
}

func TestShapeBounds(t *testing.T) {
	require.Equal(t, image.Rect(7, 7, 14, 14), Circle(10, 10, 3).Bounds())
	require.Equal(t, image.Rect(2, 3, 6, 8), Rectangle(2, 3, 4, 5).Bounds())
}

func TestShapeValidate(t *testing.T) {
	bounds := image.Rect(0, 0, 20, 20)
	require.NoError(t, Circle(10, 10, 5).Validate(bounds))
	require.ErrorIs(t, Circle(2, 2, 5).Validate(bounds), ErrROIOutOfBounds)
	require.ErrorIs(t, Rectangle(15, 15, 10, 10).Validate(bounds), ErrROIOutOfBounds)
	require.ErrorIs(t, Circle(5, 5, 0).Validate(bounds), ErrInvalidShape)
	require.ErrorIs(t, Rectangle(1, 1, 0, 4).Validate(bounds), ErrInvalidShape)
	require.ErrorIs(t, Shape{Kind: "triangle"}.Validate(bounds), ErrInvalidShape)
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{"", ModeCutTo, false},
		{"cutto", ModeCutTo, false},
		{"partial", ModePartial, false},
		{"largest", ModeLargest, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilterMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
