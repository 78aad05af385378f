// Package raster is the pure-Go image-processing backend: connected-component
// object finding, ROI filtering and the thresholding and morphology steps used to
// build plant masks.
package raster

import (
	"context"
	"fmt"
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// Engine implements port.Engine without cgo dependencies.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "raster"
}

// FindObjects labels 8-connected foreground regions of the mask, top-to-bottom,
// left-to-right by their first pixel.
func (e *Engine) FindObjects(ctx context.Context, mask *entity.Mask) (*entity.ObjectSet, error) {
	_ = ctx
	if mask.Empty() {
		return nil, entity.ErrEmptyMask
	}
	set := &entity.ObjectSet{Width: mask.Width, Height: mask.Height}
	visited := make([]bool, len(mask.Pix))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			i := y*mask.Width + x
			if mask.Pix[i] == 0 || visited[i] {
				continue
			}
			obj := floodFill(mask, visited, x, y)
			obj.ID = len(set.Objects)
			set.Objects = append(set.Objects, obj)
		}
	}
	return set, nil
}

// floodFill collects the component containing (startX, startY).
func floodFill(mask *entity.Mask, visited []bool, startX, startY int) entity.Object {
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	var pixels []image.Point

	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY*mask.Width+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pixels = append(pixels, p)

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || ny < 0 || nx >= mask.Width || ny >= mask.Height {
					continue
				}
				j := ny*mask.Width + nx
				if visited[j] || mask.Pix[j] == 0 {
					continue
				}
				visited[j] = true
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	return entity.Object{
		Pixels: pixels,
		Bounds: image.Rect(minX, minY, maxX+1, maxY+1),
	}
}

// FilterObjects restricts objects to one ROI according to mode.
func (e *Engine) FilterObjects(ctx context.Context, objects *entity.ObjectSet, roi entity.ROI, mode entity.FilterMode) (*entity.FilteredObject, error) {
	_ = ctx
	bounds := image.Rect(0, 0, objects.Width, objects.Height)
	if err := roi.Shape.Validate(bounds); err != nil {
		return nil, fmt.Errorf("roi %q: %w", roi.Label, err)
	}

	var kept []entity.Object
	switch mode {
	case entity.ModeCutTo:
		kept = cutTo(objects.Objects, roi.Shape)
	case entity.ModePartial:
		kept = overlapping(objects.Objects, roi.Shape)
	case entity.ModeLargest:
		kept = largest(overlapping(objects.Objects, roi.Shape))
	default:
		return nil, fmt.Errorf("roi %q mode %q: %w", roi.Label, mode, entity.ErrUnknownMode)
	}

	mask := entity.NewMask(objects.Width, objects.Height)
	for _, o := range kept {
		for _, p := range o.Pixels {
			mask.Set(p.X, p.Y, true)
		}
	}

	return &entity.FilteredObject{
		Label:   roi.Label,
		Objects: kept,
		Mask:    mask,
		Area:    mask.Area(),
	}, nil
}

func cutTo(objects []entity.Object, shape entity.Shape) []entity.Object {
	var kept []entity.Object
	sb := shape.Bounds()
	for _, o := range objects {
		if !o.Bounds.Overlaps(sb) {
			continue
		}
		var inside []image.Point
		clip := image.Rectangle{}
		for _, p := range o.Pixels {
			if !shape.Contains(p.X, p.Y) {
				continue
			}
			inside = append(inside, p)
			clip = clip.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		}
		if len(inside) == 0 {
			continue
		}
		kept = append(kept, entity.Object{ID: o.ID, Pixels: inside, Bounds: clip})
	}
	return kept
}

func overlapping(objects []entity.Object, shape entity.Shape) []entity.Object {
	var kept []entity.Object
	sb := shape.Bounds()
	for _, o := range objects {
		if !o.Bounds.Overlaps(sb) {
			continue
		}
		for _, p := range o.Pixels {
			if shape.Contains(p.X, p.Y) {
				kept = append(kept, o)
				break
			}
		}
	}
	return kept
}

func largest(objects []entity.Object) []entity.Object {
	if len(objects) == 0 {
		return nil
	}
	best := 0
	for i, o := range objects {
		if o.Area() > objects[best].Area() {
			best = i
		}
	}
	return []entity.Object{objects[best]}
}
