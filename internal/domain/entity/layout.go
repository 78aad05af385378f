package entity

import (
	"fmt"
	"image"
)

// Layout is an ordered, validated set of ROIs. Labels are unique and non-empty.
type Layout struct {
	rois []ROI
}

// NewLayout pairs shapes with labels by index.
func NewLayout(shapes []Shape, labels []string) (*Layout, error) {
	if len(shapes) != len(labels) {
		return nil, fmt.Errorf("%d rois, %d labels: %w", len(shapes), len(labels), ErrLabelCountMismatch)
	}
	rois := make([]ROI, len(shapes))
	for i := range shapes {
		rois[i] = ROI{Label: labels[i], Shape: shapes[i]}
	}
	return NewLayoutFromROIs(rois)
}

// NewLayoutFromROIs validates already paired ROIs.
func NewLayoutFromROIs(rois []ROI) (*Layout, error) {
	seen := make(map[string]struct{}, len(rois))
	for i, r := range rois {
		if r.Label == "" {
			return nil, fmt.Errorf("roi %d: %w", i, ErrEmptyLabel)
		}
		if _, dup := seen[r.Label]; dup {
			return nil, fmt.Errorf("roi %d label %q: %w", i, r.Label, ErrDuplicateLabel)
		}
		seen[r.Label] = struct{}{}
	}
	out := make([]ROI, len(rois))
	copy(out, rois)
	return &Layout{rois: out}, nil
}

// MultiCircle places equally sized circles at the given centers.
func MultiCircle(centers []image.Point, radius int, labels []string) (*Layout, error) {
	shapes := make([]Shape, len(centers))
	for i, c := range centers {
		shapes[i] = Circle(c.X, c.Y, radius)
	}
	return NewLayout(shapes, labels)
}

// GridCircles lays out rows x cols circles starting at origin, stepping dx and dy
// pixels. Labels are generated row-major as "r<row>c<col>", 1-based.
func GridCircles(origin image.Point, dx, dy, rows, cols, radius int) (*Layout, error) {
	shapes := make([]Shape, 0, rows*cols)
	labels := make([]string, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			shapes = append(shapes, Circle(origin.X+c*dx, origin.Y+r*dy, radius))
			labels = append(labels, fmt.Sprintf("r%dc%d", r+1, c+1))
		}
	}
	return NewLayout(shapes, labels)
}

// ROIs returns a copy of the ordered ROIs.
func (l *Layout) ROIs() []ROI {
	out := make([]ROI, len(l.rois))
	copy(out, l.rois)
	return out
}

func (l *Layout) Len() int {
	return len(l.rois)
}

// Labels returns labels in ROI order.
func (l *Layout) Labels() []string {
	out := make([]string, len(l.rois))
	for i, r := range l.rois {
		out[i] = r.Label
	}
	return out
}
