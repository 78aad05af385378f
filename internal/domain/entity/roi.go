package entity

import (
	"fmt"
	"image"
)

// ShapeKind enumerates supported ROI geometries.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeRectangle ShapeKind = "rectangle"
)

// Shape is the geometry of one region of interest.
type Shape struct {
	Kind   ShapeKind
	Center image.Point     // circle center
	Radius int             // circle radius in pixels
	Rect   image.Rectangle // rectangle extent, Max exclusive
}

// Circle builds a circular shape centered at (x, y).
func Circle(x, y, radius int) Shape {
	return Shape{Kind: ShapeCircle, Center: image.Pt(x, y), Radius: radius}
}

// Rectangle builds an axis-aligned rectangle with top-left corner (x, y).
func Rectangle(x, y, w, h int) Shape {
	return Shape{Kind: ShapeRectangle, Rect: image.Rect(x, y, x+w, y+h)}
}

// Bounds returns the smallest rectangle containing the shape.
func (s Shape) Bounds() image.Rectangle {
	switch s.Kind {
	case ShapeCircle:
		return image.Rect(s.Center.X-s.Radius, s.Center.Y-s.Radius, s.Center.X+s.Radius+1, s.Center.Y+s.Radius+1)
	case ShapeRectangle:
		return s.Rect.Canon()
	}
	return image.Rectangle{}
}

// Contains reports whether the pixel (x, y) lies inside the shape.
func (s Shape) Contains(x, y int) bool {
	switch s.Kind {
	case ShapeCircle:
		dx, dy := x-s.Center.X, y-s.Center.Y
		return dx*dx+dy*dy <= s.Radius*s.Radius
	case ShapeRectangle:
		return image.Pt(x, y).In(s.Rect.Canon())
	}
	return false
}

// Validate checks the shape is well formed and lies entirely inside bounds.
func (s Shape) Validate(bounds image.Rectangle) error {
	switch s.Kind {
	case ShapeCircle:
		if s.Radius <= 0 {
			return fmt.Errorf("circle radius %d: %w", s.Radius, ErrInvalidShape)
		}
	case ShapeRectangle:
		if s.Rect.Empty() {
			return fmt.Errorf("rectangle %v: %w", s.Rect, ErrInvalidShape)
		}
	default:
		return fmt.Errorf("kind %q: %w", s.Kind, ErrInvalidShape)
	}
	if !s.Bounds().In(bounds) {
		return fmt.Errorf("%s %v outside %v: %w", s.Kind, s.Bounds(), bounds, ErrROIOutOfBounds)
	}
	return nil
}

// ROI is a labelled shape. The label names the specimen measured inside it.
type ROI struct {
	Label string
	Shape Shape
}

// FilterMode selects how objects are restricted to an ROI.
type FilterMode string

const (
	// ModeCutTo keeps only the object pixels that fall inside the ROI.
	ModeCutTo FilterMode = "cutto"
	// ModePartial keeps whole objects that overlap the ROI.
	ModePartial FilterMode = "partial"
	// ModeLargest keeps the largest overlapping object, whole.
	ModeLargest FilterMode = "largest"
)

// ParseFilterMode maps a config string to a FilterMode. Empty means cutto.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case "", ModeCutTo:
		return ModeCutTo, nil
	case ModePartial, ModeLargest:
		return FilterMode(s), nil
	}
	return "", fmt.Errorf("mode %q: %w", s, ErrUnknownMode)
}
