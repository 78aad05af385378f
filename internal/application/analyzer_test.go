package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/infrastructure/measure"
	"plant-phenotyper/internal/infrastructure/raster"
)

type countingMeasurer struct {
	labels []string
	err    error
}

func (m *countingMeasurer) Name() string { return "count" }

func (m *countingMeasurer) Measure(ctx context.Context, source *entity.Grid, filtered *entity.FilteredObject, label string) (*entity.AnalysisRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.labels = append(m.labels, label)
	return &entity.AnalysisRecord{
		Sample:      label,
		Measurement: m.Name(),
		Area:        filtered.Area,
		Observations: []entity.Observation{
			{Variable: "pixels", Value: filtered.Area},
		},
	}, nil
}

func twoBlobMask() *entity.Mask {
	m := entity.NewMask(60, 30)
	paint(m, 5, 5, 10, 10)
	paint(m, 40, 10, 8, 12)
	return m
}

func paint(m *entity.Mask, x, y, w, h int) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			m.Set(xx, yy, true)
		}
	}
}

func newAnalyzer() *ROIAnalyzer {
	e := raster.NewEngine()
	return NewROIAnalyzer(e, e, nil)
}

func mustLayout(t *testing.T, shapes []entity.Shape, labels []string) *entity.Layout {
	t.Helper()
	l, err := entity.NewLayout(shapes, labels)
	require.NoError(t, err)
	return l
}

func TestROIAnalyzer_TwoBlobsAndEmptyROI(t *testing.T) {
	mask := twoBlobMask()
	layout := mustLayout(t,
		[]entity.Shape{
			entity.Rectangle(4, 4, 12, 12),
			entity.Rectangle(25, 2, 8, 8),
			entity.Rectangle(39, 9, 10, 14),
		},
		[]string{"left", "gap", "right"},
	)
	results := entity.NewResults()
	m := &countingMeasurer{}

	records, err := newAnalyzer().Analyze(context.Background(), AnalysisRequest{
		Image:    "tray.csv",
		Mask:     mask,
		Layout:   layout,
		Mode:     entity.ModeCutTo,
		Source:   entity.NewGrid(60, 30),
		Measurer: m,
	}, results)

	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "left", records[0].Sample)
	require.Equal(t, 100, records[0].Area)
	require.Equal(t, "right", records[1].Sample)
	require.Equal(t, 96, records[1].Area)
	require.Equal(t, "tray.csv", records[0].Image)
	require.Equal(t, []string{"left", "right"}, m.labels)
	require.Equal(t, records, results.Records())
}

func TestROIAnalyzer_RecordCountBoundedByROIs(t *testing.T) {
	mask := twoBlobMask()
	layout := mustLayout(t,
		[]entity.Shape{entity.Rectangle(0, 0, 30, 30), entity.Rectangle(30, 0, 30, 30)},
		[]string{"a", "b"},
	)

	records, err := newAnalyzer().Analyze(context.Background(), AnalysisRequest{
		Mask: mask, Layout: layout, Mode: entity.ModeCutTo,
		Source: entity.NewGrid(60, 30), Measurer: &countingMeasurer{},
	}, nil)
	require.NoError(t, err)
	require.Len(t, records, layout.Len())
}

func TestROIAnalyzer_OrderPreservingSkip(t *testing.T) {
	mask := twoBlobMask()
	base := []entity.Shape{entity.Rectangle(4, 4, 12, 12), entity.Rectangle(39, 9, 10, 14)}
	empty := entity.Circle(30, 15, 3)
	a := newAnalyzer()
	ctx := context.Background()

	reference, err := a.Analyze(ctx, AnalysisRequest{
		Mask: mask, Layout: mustLayout(t, base, []string{"a", "b"}), Mode: entity.ModeCutTo,
		Source: entity.NewGrid(60, 30), Measurer: &countingMeasurer{},
	}, nil)
	require.NoError(t, err)

	for pos := 0; pos <= len(base); pos++ {
		shapes := make([]entity.Shape, 0, len(base)+1)
		shapes = append(shapes, base[:pos]...)
		shapes = append(shapes, empty)
		shapes = append(shapes, base[pos:]...)
		labels := []string{"a", "b"}
		labels = append(labels[:pos:pos], append([]string{"empty"}, labels[pos:]...)...)

		records, err := a.Analyze(ctx, AnalysisRequest{
			Mask: mask, Layout: mustLayout(t, shapes, labels), Mode: entity.ModeCutTo,
			Source: entity.NewGrid(60, 30), Measurer: &countingMeasurer{},
		}, nil)
		require.NoError(t, err)
		require.Equal(t, reference, records, "empty roi at %d", pos)
	}
}

func TestROIAnalyzer_DisjointROIsIndependent(t *testing.T) {
	mask := twoBlobMask()
	left := entity.Rectangle(4, 4, 12, 12)
	right := entity.Rectangle(39, 9, 10, 14)
	a := newAnalyzer()
	ctx := context.Background()
	req := func(shapes []entity.Shape, labels []string) AnalysisRequest {
		return AnalysisRequest{
			Mask: mask, Layout: mustLayout(t, shapes, labels), Mode: entity.ModePartial,
			Source: entity.NewGrid(60, 30), Measurer: measure.NewShapeMeasurer(),
		}
	}

	alone, err := a.Analyze(ctx, req([]entity.Shape{left}, []string{"left"}), nil)
	require.NoError(t, err)
	both, err := a.Analyze(ctx, req([]entity.Shape{right, left}, []string{"right", "left"}), nil)
	require.NoError(t, err)

	require.Len(t, both, 2)
	require.Equal(t, alone[0], both[1])
}

func TestROIAnalyzer_IdempotentWithAdditiveAccumulator(t *testing.T) {
	mask := twoBlobMask()
	layout := mustLayout(t,
		[]entity.Shape{entity.Rectangle(4, 4, 12, 12), entity.Rectangle(39, 9, 10, 14)},
		[]string{"a", "b"},
	)
	results := entity.NewResults()
	a := newAnalyzer()
	req := AnalysisRequest{
		Mask: mask, Layout: layout, Mode: entity.ModeCutTo,
		Source: entity.NewGrid(60, 30), Measurer: &countingMeasurer{},
	}

	first, err := a.Analyze(context.Background(), req, results)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), req, results)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 4, results.Len())
}

func TestROIAnalyzer_AllROIsEmpty(t *testing.T) {
	layout := mustLayout(t, []entity.Shape{entity.Circle(10, 10, 5)}, []string{"pot"})
	results := entity.NewResults()

	outcomes, err := newAnalyzer().AnalyzeROIs(context.Background(), AnalysisRequest{
		Mask: entity.NewMask(30, 30), Layout: layout, Mode: entity.ModeCutTo,
		Source: entity.NewGrid(30, 30), Measurer: &countingMeasurer{},
	}, results)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Nil(t, outcomes[0].Record)
	require.Zero(t, outcomes[0].Filtered.Area)
	require.Zero(t, results.Len())
}

func TestROIAnalyzer_Errors(t *testing.T) {
	mask := twoBlobMask()
	layout := mustLayout(t, []entity.Shape{entity.Rectangle(4, 4, 12, 12)}, []string{"a"})
	a := newAnalyzer()
	ctx := context.Background()

	_, err := a.Analyze(ctx, AnalysisRequest{
		Mask: mask, Layout: layout, Source: entity.NewGrid(10, 10), Measurer: &countingMeasurer{},
	}, nil)
	require.ErrorIs(t, err, entity.ErrSizeMismatch)

	_, err = a.Analyze(ctx, AnalysisRequest{
		Mask: entity.NewMask(0, 0), Layout: layout, Source: entity.NewGrid(0, 0), Measurer: &countingMeasurer{},
	}, nil)
	require.ErrorIs(t, err, entity.ErrEmptyMask)

	outside := mustLayout(t, []entity.Shape{entity.Circle(2, 2, 10)}, []string{"edge"})
	_, err = a.Analyze(ctx, AnalysisRequest{
		Mask: mask, Layout: outside, Mode: entity.ModeCutTo, Source: entity.NewGrid(60, 30), Measurer: &countingMeasurer{},
	}, nil)
	require.ErrorIs(t, err, entity.ErrROIOutOfBounds)

	boom := errors.New("boom")
	results := entity.NewResults()
	_, err = a.Analyze(ctx, AnalysisRequest{
		Mask: mask, Layout: layout, Mode: entity.ModeCutTo, Source: entity.NewGrid(60, 30), Measurer: &countingMeasurer{err: boom},
	}, results)
	require.ErrorIs(t, err, boom)
	require.Zero(t, results.Len())
}
