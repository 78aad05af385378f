package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/logger"
)

const componentBatch = "batch"

// ErrDuplicateInput is returned when two batch inputs would share a name.
var ErrDuplicateInput = errors.New("duplicate batch input")

// BatchInput lists the thermal CSVs of one batch. Layout, Mode, Debug and
// Colormap apply to every input; companion RGB images use the default location.
type BatchInput struct {
	Inputs   []string
	Layout   *entity.Layout
	Mode     entity.FilterMode
	Debug    bool
	Colormap string
}

// BatchOutput holds the per-input outputs in input order.
type BatchOutput struct {
	Outputs []*ThermalOutput
}

// Skipped lists "<image>/<label>" for every ROI skipped in the batch.
func (o *BatchOutput) Skipped() []string {
	var skipped []string
	for _, out := range o.Outputs {
		for _, label := range out.Skipped {
			skipped = append(skipped, out.Image+"/"+label)
		}
	}
	return skipped
}

// BatchService runs the thermal workflow over many inputs with a bounded
// number of workers.
type BatchService struct {
	thermal *ThermalService
	workers int
	log     logger.Logger
}

func NewBatchService(thermal *ThermalService, workers int, log logger.Logger) *BatchService {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BatchService{thermal: thermal, workers: workers, log: log}
}

// Run analyzes all inputs. Each worker fills its own accumulator; they are
// merged into results in input order once every input succeeded. The first
// failure cancels the remaining inputs and nothing is merged.
func (s *BatchService) Run(ctx context.Context, in BatchInput, results *entity.Results) (*BatchOutput, error) {
	if len(in.Inputs) == 0 {
		return nil, errors.New("batch has no inputs")
	}
	if _, err := thermalColormap(in.Colormap); err != nil {
		return nil, err
	}
	names, err := inputNames(in.Inputs)
	if err != nil {
		return nil, err
	}

	outputs := make([]*ThermalOutput, len(in.Inputs))
	partial := make([]*entity.Results, len(in.Inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, input := range in.Inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := entity.NewResults()
			out, err := s.thermal.Run(gctx, ThermalInput{
				Thermal:  input,
				Name:     names[i],
				Layout:   in.Layout,
				Mode:     in.Mode,
				Debug:    in.Debug,
				Colormap: in.Colormap,
			}, res)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outputs[i] = out
			partial[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error(componentBatch, err, map[string]interface{}{"inputs": len(in.Inputs)})
		return nil, err
	}

	records := 0
	for _, res := range partial {
		records += res.Len()
		if results != nil {
			results.Merge(res)
		}
	}
	s.log.Info(componentBatch, "batch finished", map[string]interface{}{
		"inputs":  len(in.Inputs),
		"records": records,
		"workers": s.workers,
	})
	return &BatchOutput{Outputs: outputs}, nil
}

// inputNames keys every input by its base name. Inputs whose base names
// collide are named by their path below the inputs' common directory instead,
// with separators replaced by "_" (day1/plate.csv becomes day1_plate).
func inputNames(inputs []string) ([]string, error) {
	names := make([]string, len(inputs))
	count := make(map[string]int, len(inputs))
	for i, in := range inputs {
		names[i] = baseName(in)
		count[names[i]]++
	}

	common := commonDir(inputs)
	for i, in := range inputs {
		if count[baseName(in)] < 2 {
			continue
		}
		rel := strings.TrimPrefix(path.Clean(filepath.ToSlash(in)), common)
		rel = strings.TrimSuffix(strings.TrimPrefix(rel, "/"), path.Ext(rel))
		names[i] = strings.ReplaceAll(rel, "/", "_")
	}

	seen := make(map[string]string, len(inputs))
	for i, name := range names {
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("%s and %s both map to %q: %w", prev, inputs[i], name, ErrDuplicateInput)
		}
		seen[name] = inputs[i]
	}
	return names, nil
}

// commonDir is the longest slash-separated directory prefix shared by all inputs.
func commonDir(inputs []string) string {
	var common []string
	for i, in := range inputs {
		parts := strings.Split(path.Dir(path.Clean(filepath.ToSlash(in))), "/")
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	return strings.Join(common, "/")
}
