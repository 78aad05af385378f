package port

import (
	"context"
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// ObjectFinder extracts the global set of foreground objects from a mask.
type ObjectFinder interface {
	FindObjects(ctx context.Context, mask *entity.Mask) (*entity.ObjectSet, error)
}

// ROIFilter restricts an object set to one ROI.
type ROIFilter interface {
	// FilterObjects returns the kept objects, their mask and area. Geometry
	// problems (ROI outside the image) are returned as errors.
	FilterObjects(ctx context.Context, objects *entity.ObjectSet, roi entity.ROI, mode entity.FilterMode) (*entity.FilteredObject, error)
}

// Segmenter turns an image into a binary plant mask.
type Segmenter interface {
	Segment(ctx context.Context, img image.Image) (*entity.Mask, error)
}

// Engine bundles the image-processing capabilities of one backend.
type Engine interface {
	ObjectFinder
	ROIFilter
	// Name identifies the backend in logs and results metadata.
	Name() string
}
