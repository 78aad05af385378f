package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plant-phenotyper/config"
	app "plant-phenotyper/internal/application"
	"plant-phenotyper/internal/container"
	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/infrastructure/source"
	"plant-phenotyper/internal/infrastructure/visualize"
	"plant-phenotyper/internal/logger"
)

const (
	componentCLI   = "cli"
	previewMaxSide = 1024
)

// runFlags are shared by every workflow command.
type runFlags struct {
	image    string
	result   string
	outdir   string
	writeimg bool
	debug    bool
	layout   string
	model    string
}

// session is what a workflow command needs once flags and environment are read.
type session struct {
	flags   runFlags
	log     logger.Logger
	c       *container.Container
	layout  *entity.Layout
	mode    entity.FilterMode
	results *entity.Results
	runID   string
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}
	root := &cobra.Command{
		Use:          "phenotyper",
		Short:        "Plant phenotyping workflows: thermal, chlorophyll fluorescence, batch",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.image, "image", "i", "", "input image: thermal CSV, fluorescence export directory or batch directory")
	pf.StringVarP(&flags.result, "result", "r", "", "results file (JSON)")
	pf.StringVarP(&flags.outdir, "outdir", "o", "", "output directory for image files")
	pf.BoolVarP(&flags.writeimg, "writeimg", "w", false, "write out pseudocolor images")
	pf.BoolVarP(&flags.debug, "debug", "D", false, "debug logging and intermediate masks")
	pf.StringVar(&flags.layout, "layout", "", "ROI layout YAML (default: the workflow's built-in layout)")
	pf.StringVar(&flags.model, "model", "", "RGB to thermal registration model YAML")
	_ = root.MarkPersistentFlagRequired("result")

	root.AddCommand(newThermalCmd(flags), newFluorescenceCmd(flags), newBatchCmd(flags))
	return root
}

func newThermalCmd(flags *runFlags) *cobra.Command {
	var rgb, cmap string
	cmd := &cobra.Command{
		Use:   "thermal",
		Short: "Per-pot temperature statistics from a thermal CSV and its RGB companion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.image == "" {
				return errors.New("--image is required")
			}
			s, err := newSession(*flags, "thermal")
			if err != nil {
				return err
			}
			out, err := s.c.ThermalService.Run(cmd.Context(), app.ThermalInput{
				Thermal:  flags.image,
				RGB:      rgb,
				Layout:   s.layout,
				Mode:     s.mode,
				Debug:    flags.debug,
				Colormap: cmap,
			}, s.results)
			if err != nil {
				return err
			}
			return s.finish(cmd.Context(), "thermal", []string{flags.image}, labelled(out.Image, out.Records), prefixed(out.Image, out.Skipped), out.Pseudo)
		},
	}
	cmd.Flags().StringVar(&rgb, "rgb", "", "RGB companion image (default: <dir>/RGB/<base>_RGB.png)")
	cmd.Flags().StringVar(&cmap, "cmap", "jet", "pseudocolor map: jet, viridis, greens, purples or gray")
	return cmd
}

func newFluorescenceCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fluorescence",
		Short: "Plant shape, Fv/Fm, Fq'/Fm', NPQ and spectral indices from a CropReporter export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.image == "" {
				return errors.New("--image is required")
			}
			s, err := newSession(*flags, "fluorescence")
			if err != nil {
				return err
			}
			out, err := s.c.FluorescenceService.Run(cmd.Context(), app.FluorescenceInput{
				Dir:         flags.image,
				Layout:      s.layout,
				Mode:        s.mode,
				WriteImages: flags.writeimg,
				Debug:       flags.debug,
			}, s.results)
			if err != nil {
				return err
			}
			return s.finish(cmd.Context(), "fluorescence", []string{flags.image}, labelled(out.Image, out.Records), prefixed(out.Image, out.Skipped), out.Preview)
		},
	}
}

func newBatchCmd(flags *runFlags) *cobra.Command {
	var cmap string
	cmd := &cobra.Command{
		Use:   "batch [inputs...]",
		Short: "Thermal workflow over many CSVs (files, directories or az:// blobs)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.image != "" {
				args = append([]string{flags.image}, args...)
			}
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			s, err := newSession(*flags, "batch")
			if err != nil {
				return err
			}
			out, err := s.c.BatchService.Run(cmd.Context(), app.BatchInput{
				Inputs:   inputs,
				Layout:   s.layout,
				Mode:     s.mode,
				Debug:    flags.debug,
				Colormap: cmap,
			}, s.results)
			if err != nil {
				return err
			}
			var (
				analyzed []string
				preview  image.Image
			)
			for _, o := range out.Outputs {
				analyzed = append(analyzed, labelled(o.Image, o.Records)...)
				if preview == nil {
					preview = o.Pseudo
				}
			}
			return s.finish(cmd.Context(), "batch", inputs, analyzed, out.Skipped(), preview)
		},
	}
	cmd.Flags().StringVar(&cmap, "cmap", "jet", "pseudocolor map: jet, viridis, greens, purples or gray")
	return cmd
}

func newSession(flags runFlags, workflow string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if flags.debug {
		level = zerolog.DebugLevel
		if flags.outdir == "" {
			flags.outdir = "."
		}
	}
	log := logger.NewConsoleLogger(level)

	c, err := container.New(cfg, container.Options{OutDir: flags.outdir, ModelPath: flags.model}, log)
	if err != nil {
		return nil, err
	}

	s := &session{flags: flags, log: log, c: c, results: entity.NewResults(), runID: uuid.NewString()}
	if flags.layout != "" {
		if s.layout, s.mode, err = config.LoadLayoutFile(flags.layout); err != nil {
			return nil, err
		}
	}

	s.results.SetMetadata("run_id", s.runID)
	s.results.SetMetadata("workflow", workflow)
	s.results.SetMetadata("engine", c.Engine.Name())
	s.results.SetMetadata("started_at", time.Now().UTC().Format(time.RFC3339))
	if flags.layout != "" {
		s.results.SetMetadata("layout", flags.layout)
	}
	return s, nil
}

// finish writes the results file and reports the run.
func (s *session) finish(ctx context.Context, workflow string, inputs, analyzed, skipped []string, preview image.Image) error {
	if err := s.c.ResultsWriter.Write(ctx, s.flags.result, s.results); err != nil {
		return err
	}
	s.log.Info(componentCLI, "results written", map[string]interface{}{
		"path":    s.flags.result,
		"records": s.results.Len(),
		"run_id":  s.runID,
	})

	if s.c.Notifier == nil {
		return nil
	}
	summary := entity.RunSummary{
		RunID:      s.runID,
		Workflow:   workflow,
		Inputs:     inputs,
		ResultPath: s.flags.result,
		Records:    s.results.Len(),
		Analyzed:   analyzed,
		Skipped:    skipped,
	}
	if preview != nil {
		preview = visualize.Preview(preview, previewMaxSide)
	}
	if err := s.c.Notifier.Notify(ctx, summary, preview); err != nil {
		s.log.Error(componentCLI, err, map[string]interface{}{"stage": "notify"})
	}
	return nil
}

// expandInputs turns batch arguments into thermal CSV locations: directories
// are replaced by the CSVs they contain, in name order.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if source.IsRemote(arg) {
			inputs = append(inputs, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.csv"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		inputs = append(inputs, matches...)
	}
	if len(inputs) == 0 {
		return nil, errors.New("no thermal CSV inputs")
	}
	return inputs, nil
}

func labelled(img string, records []entity.AnalysisRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, img+"/"+r.Sample)
	}
	return out
}

func prefixed(img string, labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, img+"/"+l)
	}
	return out
}
