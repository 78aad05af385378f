package container

import (
	"fmt"

	"plant-phenotyper/config"
	telegram "plant-phenotyper/internal/api"
	app "plant-phenotyper/internal/application"
	"plant-phenotyper/internal/domain/port"
	"plant-phenotyper/internal/infrastructure/raster"
	"plant-phenotyper/internal/infrastructure/registration"
	"plant-phenotyper/internal/infrastructure/source"
	"plant-phenotyper/internal/infrastructure/storage"
	"plant-phenotyper/internal/infrastructure/vision"
	"plant-phenotyper/internal/infrastructure/visualize"
	"plant-phenotyper/internal/logger"
)

const componentContainer = "container"

// Options are the per-invocation settings that do not come from the environment.
type Options struct {
	// OutDir receives image files; empty disables them.
	OutDir string
	// ModelPath is an affine registration model; empty means plain rescaling.
	ModelPath string
}

type Container struct {
	Log      logger.Logger
	Engine   port.Engine
	Analyzer *app.ROIAnalyzer

	ThermalService      *app.ThermalService
	FluorescenceService *app.FluorescenceService
	BatchService        *app.BatchService
	// ChlorophyllSegmenter masks fluorescence frames for the selected engine.
	ChlorophyllSegmenter port.Segmenter

	ResultsWriter port.ResultsWriter
	// Notifier is nil when Telegram is not configured.
	Notifier port.Notifier
}

func New(cfg *config.Config, opts Options, log logger.Logger) (*Container, error) {
	var (
		engine       port.Engine
		rgbSegmenter port.Segmenter
		chlorophyll  port.Segmenter
	)
	switch cfg.Engine {
	case config.EngineGoCV:
		e := vision.NewGoCVEngine()
		engine, rgbSegmenter = e, e
		chlorophyll = vision.NewChlorophyllSegmenter()
	default:
		engine, rgbSegmenter = raster.NewEngine(), raster.NewThermalRGBSegmenter()
		chlorophyll = raster.NewChlorophyllSegmenter()
	}

	var registrar port.Registrar = registration.NewResizeRegistrar()
	if opts.ModelPath != "" {
		model, err := registration.LoadAffineModelFile(opts.ModelPath)
		if err != nil {
			return nil, err
		}
		registrar = registration.NewAffineRegistrar(model)
	}

	opener, err := source.NewOpener(cfg.AzureAccount, cfg.AzureKey)
	if err != nil {
		return nil, fmt.Errorf("azure storage: %w", err)
	}

	var images port.ImageWriter
	if opts.OutDir != "" {
		images = visualize.NewFileWriter(opts.OutDir)
	}

	var notifier port.Notifier
	if cfg.NotifyEnabled() {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warning(componentContainer, "telegram notifications disabled", map[string]interface{}{"error": err.Error()})
		} else {
			notifier = n
		}
	}

	analyzer := app.NewROIAnalyzer(engine, engine, log)
	thermal := app.NewThermalService(analyzer, rgbSegmenter, registrar, opener, images, log)

	log.Debug(componentContainer, "services wired", map[string]interface{}{
		"engine":  engine.Name(),
		"workers": cfg.Workers,
		"remote":  cfg.AzureAccount != "",
	})

	return &Container{
		Log:                  log,
		Engine:               engine,
		Analyzer:             analyzer,
		ThermalService:       thermal,
		FluorescenceService:  app.NewFluorescenceService(analyzer, chlorophyll, images, log),
		ChlorophyllSegmenter: chlorophyll,
		BatchService:         app.NewBatchService(thermal, cfg.Workers, log),
		ResultsWriter:        storage.NewJSONResultsWriter(),
		Notifier:             notifier,
	}, nil
}
