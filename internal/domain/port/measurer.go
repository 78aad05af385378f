package port

import (
	"context"

	"plant-phenotyper/internal/domain/entity"
)

// Measurer extracts one analysis record from a measurement source restricted to
// the filtered mask of one ROI.
type Measurer interface {
	// Name is stored as AnalysisRecord.Measurement.
	Name() string
	Measure(ctx context.Context, source *entity.Grid, filtered *entity.FilteredObject, label string) (*entity.AnalysisRecord, error)
}
