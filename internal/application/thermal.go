package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"path/filepath"
	"strings"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/domain/port"
	"plant-phenotyper/internal/infrastructure/measure"
	"plant-phenotyper/internal/infrastructure/source"
	"plant-phenotyper/internal/infrastructure/visualize"
	"plant-phenotyper/internal/logger"
)

const componentThermal = "thermal"

// Thermal tray defaults: six pots, three high-light-pretreated plants and three
// wild type, imaged by the same camera rig.
var (
	ThermalCenters = []image.Point{
		{X: 130, Y: 118}, {X: 331, Y: 152}, {X: 495, Y: 139},
		{X: 135, Y: 300}, {X: 305, Y: 330}, {X: 490, Y: 316},
	}
	ThermalLabels = []string{"HLP_1", "WT_1", "HLP_2", "WT_2", "HLP_3", "WT_3"}
	ThermalRadius = 85

	// ThermalCrop is the tray area shown in the pseudocolor image.
	ThermalCrop = image.Rect(50, 0, 560, 450)
	// ThermalRange is the pseudocolor temperature range in °C.
	ThermalRange = [2]float64{20, 45}
)

// DefaultThermalLayout returns the six-pot tray layout.
func DefaultThermalLayout() (*entity.Layout, error) {
	return entity.MultiCircle(ThermalCenters, ThermalRadius, ThermalLabels)
}

// ThermalInput describes one thermal image to analyze.
type ThermalInput struct {
	// Thermal is the CSV location, a local path or az://container/blob.
	Thermal string
	// RGB overrides the companion image location, see CompanionRGB.
	RGB string
	// Name keys records and image files; defaults to the CSV base name.
	Name string
	// Layout defaults to DefaultThermalLayout, Mode to cutto.
	Layout *entity.Layout
	Mode   entity.FilterMode
	// Debug stores the plant mask and the per-ROI masks next to the
	// pseudocolor image.
	Debug bool
	// Colormap names the pseudocolor map, jet when empty.
	Colormap string
}

// ThermalOutput is what one thermal analysis produced.
type ThermalOutput struct {
	Image   string
	Records []entity.AnalysisRecord
	Skipped []string
	// Pseudo is the pseudocolored tray crop.
	Pseudo image.Image
}

// ThermalService runs the thermal workflow: register the RGB companion image to
// the thermal frame, segment plants on it and measure temperatures per pot.
type ThermalService struct {
	analyzer  *ROIAnalyzer
	segmenter port.Segmenter
	registrar port.Registrar
	opener    port.SourceOpener
	images    port.ImageWriter
	measurer  port.Measurer
	log       logger.Logger
}

// NewThermalService creates the service. With a nil images writer no image
// files are produced.
func NewThermalService(analyzer *ROIAnalyzer, segmenter port.Segmenter, registrar port.Registrar, opener port.SourceOpener, images port.ImageWriter, log logger.Logger) *ThermalService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ThermalService{
		analyzer:  analyzer,
		segmenter: segmenter,
		registrar: registrar,
		opener:    opener,
		images:    images,
		measurer:  measure.NewThermalMeasurer(),
		log:       log,
	}
}

func thermalColormap(name string) (visualize.Colormap, error) {
	if name == "" {
		return visualize.Jet, nil
	}
	return visualize.ColormapByName(name)
}

// Run analyzes one thermal image and adds its records to results.
func (s *ThermalService) Run(ctx context.Context, in ThermalInput, results *entity.Results) (*ThermalOutput, error) {
	if in.Thermal == "" {
		return nil, errors.New("thermal input is empty")
	}
	cmap, err := thermalColormap(in.Colormap)
	if err != nil {
		return nil, err
	}
	base := in.Name
	if base == "" {
		base = baseName(in.Thermal)
	}

	grid, err := source.LoadThermal(ctx, s.opener, in.Thermal)
	if err != nil {
		return nil, fmt.Errorf("load thermal: %w", err)
	}
	rgbLoc := in.RGB
	if rgbLoc == "" {
		rgbLoc = CompanionRGB(in.Thermal)
	}
	rgb, err := source.LoadImage(ctx, s.opener, rgbLoc)
	if err != nil {
		return nil, fmt.Errorf("load rgb: %w", err)
	}

	registered, err := s.registrar.Register(ctx, rgb, grid)
	if err != nil {
		return nil, fmt.Errorf("register rgb: %w", err)
	}
	mask, err := s.segmenter.Segment(ctx, registered)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	layout := in.Layout
	if layout == nil {
		if layout, err = DefaultThermalLayout(); err != nil {
			return nil, err
		}
	}
	mode := in.Mode
	if mode == "" {
		mode = entity.ModeCutTo
	}

	outcomes, err := s.analyzer.AnalyzeROIs(ctx, AnalysisRequest{
		Image:    base,
		Mask:     mask,
		Layout:   layout,
		Mode:     mode,
		Source:   grid,
		Measurer: s.measurer,
	}, results)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}

	crop := ThermalCrop.Intersect(grid.Bounds())
	if crop.Empty() {
		crop = grid.Bounds()
	}
	pseudo := visualize.Pseudocolor(grid.Crop(crop), mask.Crop(crop), visualize.PseudocolorOptions{
		Colormap:   cmap,
		Min:        ThermalRange[0],
		Max:        ThermalRange[1],
		Background: visualize.BackgroundImage,
	})

	if s.images != nil {
		if err := s.images.WriteImage(ctx, base+"_pseudo.jpg", pseudo); err != nil {
			return nil, err
		}
	}
	if s.images != nil && in.Debug {
		if err := writeDebugImages(ctx, s.images, base, mask, outcomes); err != nil {
			return nil, err
		}
	}

	out := &ThermalOutput{Image: base, Pseudo: pseudo}
	for _, o := range outcomes {
		if o.Record == nil {
			out.Skipped = append(out.Skipped, o.ROI.Label)
			continue
		}
		out.Records = append(out.Records, *o.Record)
	}
	s.log.Info(componentThermal, "image analyzed", map[string]interface{}{
		"image":   base,
		"records": len(out.Records),
		"skipped": len(out.Skipped),
	})
	return out, nil
}

// CompanionRGB returns the default RGB image location for a thermal CSV:
// <dir>/RGB/<base>_RGB.png.
func CompanionRGB(thermal string) string {
	name := baseName(thermal) + "_RGB.png"
	if source.IsRemote(thermal) {
		rest := strings.TrimPrefix(thermal, source.AzureScheme)
		return source.AzureScheme + path.Join(path.Dir(rest), "RGB", name)
	}
	return filepath.Join(filepath.Dir(thermal), "RGB", name)
}

func baseName(location string) string {
	name := path.Base(filepath.ToSlash(location))
	return strings.TrimSuffix(name, path.Ext(name))
}
