package app

import (
	"context"
	"errors"
	"fmt"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/domain/port"
	"plant-phenotyper/internal/logger"
)

const componentAnalyzer = "analyzer"

// AnalysisRequest describes one ROI batch analysis over a single image.
type AnalysisRequest struct {
	// Image names the input the records belong to.
	Image  string
	Mask   *entity.Mask
	Layout *entity.Layout
	// Mode defaults to cutto.
	Mode     entity.FilterMode
	Source   *entity.Grid
	Measurer port.Measurer
}

// ROIOutcome is the per-ROI result of an analysis. Record is nil when the ROI
// was skipped because nothing survived filtering.
type ROIOutcome struct {
	ROI      entity.ROI
	Filtered *entity.FilteredObject
	Record   *entity.AnalysisRecord
}

// ROIAnalyzer filters the plant objects of a mask by each ROI of a layout and
// measures what remains.
type ROIAnalyzer struct {
	finder port.ObjectFinder
	filter port.ROIFilter
	log    logger.Logger
}

// NewROIAnalyzer creates an analyzer on top of an image-processing backend.
func NewROIAnalyzer(finder port.ObjectFinder, filter port.ROIFilter, log logger.Logger) *ROIAnalyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &ROIAnalyzer{finder: finder, filter: filter, log: log}
}

// Analyze returns one record per ROI with a non-empty filtered area, in layout
// order, and appends each of them to results.
func (a *ROIAnalyzer) Analyze(ctx context.Context, req AnalysisRequest, results *entity.Results) ([]entity.AnalysisRecord, error) {
	outcomes, err := a.AnalyzeROIs(ctx, req, results)
	if err != nil {
		return nil, err
	}
	records := make([]entity.AnalysisRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Record != nil {
			records = append(records, *o.Record)
		}
	}
	return records, nil
}

// AnalyzeROIs is Analyze that also reports the filtered object of every ROI,
// skipped ones included.
func (a *ROIAnalyzer) AnalyzeROIs(ctx context.Context, req AnalysisRequest, results *entity.Results) ([]ROIOutcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	objects, err := a.finder.FindObjects(ctx, req.Mask)
	if err != nil {
		return nil, fmt.Errorf("find objects: %w", err)
	}

	mode := req.Mode
	if mode == "" {
		mode = entity.ModeCutTo
	}
	rois := req.Layout.ROIs()
	outcomes := make([]ROIOutcome, 0, len(rois))
	for _, roi := range rois {
		filtered, err := a.filter.FilterObjects(ctx, objects, roi, mode)
		if err != nil {
			return nil, err
		}
		outcome := ROIOutcome{ROI: roi, Filtered: filtered}
		if filtered.Area == 0 {
			a.log.Debug(componentAnalyzer, "roi skipped, no plant area", map[string]interface{}{
				"image": req.Image,
				"label": roi.Label,
			})
			outcomes = append(outcomes, outcome)
			continue
		}

		rec, err := req.Measurer.Measure(ctx, req.Source, filtered, roi.Label)
		if err != nil {
			return nil, fmt.Errorf("measure %q: %w", roi.Label, err)
		}
		rec.Image = req.Image
		if results != nil {
			results.Add(*rec)
		}
		outcome.Record = rec
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func validateRequest(req AnalysisRequest) error {
	if req.Mask.Empty() {
		return entity.ErrEmptyMask
	}
	if req.Layout == nil {
		return errors.New("layout is not configured")
	}
	if req.Measurer == nil {
		return errors.New("measurer is not configured")
	}
	if req.Source == nil || !req.Source.SameSize(req.Mask) {
		return fmt.Errorf("source does not match mask %dx%d: %w", req.Mask.Width, req.Mask.Height, entity.ErrSizeMismatch)
	}
	return nil
}
