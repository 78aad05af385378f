package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/domain/port"
	"plant-phenotyper/internal/infrastructure/fluorescence"
	"plant-phenotyper/internal/infrastructure/measure"
	"plant-phenotyper/internal/infrastructure/source"
	"plant-phenotyper/internal/infrastructure/spectral"
	"plant-phenotyper/internal/infrastructure/visualize"
	"plant-phenotyper/internal/logger"
)

const (
	componentFluorescence = "fluorescence"

	// plantLabel is the sample name of whole-plant measurements.
	plantLabel = "default"
)

// DefaultFluorescenceLayout is the single rectangle around the imaged plant.
func DefaultFluorescenceLayout() (*entity.Layout, error) {
	return entity.NewLayout([]entity.Shape{entity.Rectangle(400, 300, 400, 400)}, []string{plantLabel})
}

// FluorescenceInput describes one CropReporter export directory.
type FluorescenceInput struct {
	Dir string
	// Layout defaults to DefaultFluorescenceLayout, Mode to partial.
	Layout      *entity.Layout
	Mode        entity.FilterMode
	WriteImages bool
	Debug       bool
}

// FluorescenceOutput is what one fluorescence analysis produced.
type FluorescenceOutput struct {
	Image   string
	Records []entity.AnalysisRecord
	Skipped []string
	// Preview is the Fv/Fm pseudocolor image when dark-adapted frames exist,
	// otherwise the plant mask.
	Preview image.Image
}

// renderStyle is how one efficiency or index grid is rendered.
type renderStyle struct {
	suffix     string
	colormap   visualize.Colormap
	min, max   float64
	background visualize.Background
}

var indexCmaps = map[string]renderStyle{
	spectral.ARI.Name:       {suffix: "ari", colormap: visualize.Purples, min: 0, max: 10, background: visualize.BackgroundBlack},
	spectral.NDVI.Name:      {suffix: "ndvi", colormap: visualize.Jet, min: 0, max: 1, background: visualize.BackgroundBlack},
	spectral.CIRedEdge.Name: {suffix: "ci", colormap: visualize.Greens, min: 0, max: 5, background: visualize.BackgroundBlack},
}

// FluorescenceService runs the chlorophyll fluorescence workflow: plant shape
// inside the ROI, photosynthetic efficiency and spectral indices of the plant.
type FluorescenceService struct {
	analyzer  *ROIAnalyzer
	segmenter port.Segmenter
	images    port.ImageWriter
	log       logger.Logger
}

func NewFluorescenceService(analyzer *ROIAnalyzer, segmenter port.Segmenter, images port.ImageWriter, log logger.Logger) *FluorescenceService {
	if log == nil {
		log = logger.NewNop()
	}
	return &FluorescenceService{analyzer: analyzer, segmenter: segmenter, images: images, log: log}
}

// Run analyzes one export directory and adds its records to results.
func (s *FluorescenceService) Run(ctx context.Context, in FluorescenceInput, results *entity.Results) (*FluorescenceOutput, error) {
	set, err := source.LoadFrameSet(ctx, in.Dir)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(filepath.Clean(in.Dir))

	mask, err := s.segmenter.Segment(ctx, set.Chl)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	layout := in.Layout
	if layout == nil {
		if layout, err = DefaultFluorescenceLayout(); err != nil {
			return nil, err
		}
	}
	mode := in.Mode
	if mode == "" {
		mode = entity.ModePartial
	}
	outcomes, err := s.analyzer.AnalyzeROIs(ctx, AnalysisRequest{
		Image:    base,
		Mask:     mask,
		Layout:   layout,
		Mode:     mode,
		Source:   set.Frames.Chl,
		Measurer: measure.NewShapeMeasurer(),
	}, results)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}

	out := &FluorescenceOutput{Image: base, Preview: mask.ToGray()}
	for _, o := range outcomes {
		if o.Record == nil {
			out.Skipped = append(out.Skipped, o.ROI.Label)
			continue
		}
		out.Records = append(out.Records, *o.Record)
	}

	plant := &entity.FilteredObject{Label: plantLabel, Mask: mask, Area: mask.Area()}
	run := &plantRun{svc: s, base: base, plant: plant, results: results, out: out, write: in.WriteImages}

	if err := run.efficiency(ctx, set.Frames); err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}
	if set.Cube.Len() > 0 {
		if err := run.indices(ctx, set.Cube); err != nil {
			return nil, fmt.Errorf("%s: %w", base, err)
		}
	}

	if s.images != nil && in.Debug {
		if err := writeDebugImages(ctx, s.images, base, mask, outcomes); err != nil {
			return nil, err
		}
	}
	s.log.Info(componentFluorescence, "frames analyzed", map[string]interface{}{
		"image":   base,
		"records": len(out.Records),
		"bands":   set.Cube.Len(),
	})
	return out, nil
}

// plantRun measures whole-plant grids of one export.
type plantRun struct {
	svc     *FluorescenceService
	base    string
	plant   *entity.FilteredObject
	results *entity.Results
	out     *FluorescenceOutput
	write   bool
}

func (r *plantRun) efficiency(ctx context.Context, frames *fluorescence.Frames) error {
	var fm *entity.Grid
	if frames.HasDark() {
		fvfm, err := fluorescence.FvFm(frames.F0, frames.Fm, r.plant.Mask)
		if err != nil {
			return fmt.Errorf("fv/fm: %w", err)
		}
		fm = frames.Fm
		cmap := r.render(fvfm, renderStyle{suffix: "fvfm", colormap: visualize.Viridis, min: 0, max: 1})
		r.out.Preview = cmap
		if err := r.measure(ctx, measure.NewYIIMeasurer("Fv/Fm"), fvfm); err != nil {
			return err
		}
		if err := r.save(ctx, "fvfm", cmap); err != nil {
			return err
		}
	}
	if frames.HasLight() {
		fqfm, err := fluorescence.FqFm(frames.Fs, frames.Fmp, r.plant.Mask)
		if err != nil {
			return fmt.Errorf("fq'/fm': %w", err)
		}
		if err := r.measure(ctx, measure.NewYIIMeasurer("Fq'/Fm'"), fqfm); err != nil {
			return err
		}
		if err := r.save(ctx, "fqfm", r.render(fqfm, renderStyle{colormap: visualize.Viridis, min: 0, max: 1})); err != nil {
			return err
		}
	}
	if fm != nil && frames.HasLight() {
		npq, err := fluorescence.NPQ(fm, frames.Fmp, r.plant.Mask)
		if err != nil {
			return fmt.Errorf("npq: %w", err)
		}
		if err := r.measure(ctx, measure.NewNPQMeasurer("NPQ"), npq); err != nil {
			return err
		}
		if err := r.save(ctx, "npq", r.render(npq, renderStyle{colormap: visualize.Viridis, min: 0, max: 1})); err != nil {
			return err
		}
	}
	return nil
}

func (r *plantRun) indices(ctx context.Context, cube *spectral.Cube) error {
	for _, idx := range spectral.All() {
		g, err := idx.Compute(cube, spectral.DefaultDistance)
		if errors.Is(err, spectral.ErrMissingWavelength) {
			r.svc.log.Warning(componentFluorescence, "index skipped", map[string]interface{}{
				"image": r.base,
				"index": idx.Name,
				"error": err.Error(),
			})
			continue
		}
		if err != nil {
			return err
		}
		if err := r.measure(ctx, measure.NewIndexMeasurer(idx.Name, idx.Min, idx.Max), g); err != nil {
			return err
		}
		style := indexCmaps[idx.Name]
		if err := r.save(ctx, style.suffix, r.render(g, style)); err != nil {
			return err
		}
	}
	return nil
}

func (r *plantRun) measure(ctx context.Context, m port.Measurer, g *entity.Grid) error {
	if r.plant.Area == 0 {
		return nil
	}
	rec, err := m.Measure(ctx, g, r.plant, plantLabel)
	if err != nil {
		return err
	}
	rec.Image = r.base
	if r.results != nil {
		r.results.Add(*rec)
	}
	r.out.Records = append(r.out.Records, *rec)
	return nil
}

func (r *plantRun) render(g *entity.Grid, style renderStyle) *image.RGBA {
	bg := style.background
	if bg == "" {
		bg = visualize.BackgroundImage
	}
	return visualize.Pseudocolor(g, r.plant.Mask, visualize.PseudocolorOptions{
		Colormap:   style.colormap,
		Min:        style.min,
		Max:        style.max,
		Background: bg,
	})
}

func (r *plantRun) save(ctx context.Context, suffix string, img image.Image) error {
	if !r.write || r.svc.images == nil {
		return nil
	}
	return r.svc.images.WriteImage(ctx, r.base+"_"+suffix+"_cmap.png", img)
}
