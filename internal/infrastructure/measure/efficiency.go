package measure

import (
	"context"
	"fmt"

	"plant-phenotyper/internal/domain/entity"
)

const methodEfficiency = "measure.efficiency"

// EfficiencyKind selects which photosynthesis estimate a grid holds.
type EfficiencyKind string

const (
	// KindYII is a PSII efficiency estimate (Fv/Fm or Fq'/Fm'), range [0, 1].
	KindYII EfficiencyKind = "yii"
	// KindNPQ is non-photochemical quenching, range [0, MaxValue].
	KindNPQ EfficiencyKind = "npq"
)

// EfficiencyMeasurer records the histogram, peak and median of a photosynthesis
// estimate grid. MeasurementLabel ("Fv/Fm", "NPQ", ...) suffixes the variables.
type EfficiencyMeasurer struct {
	Kind             EfficiencyKind
	MeasurementLabel string
	Bins             int
	MaxValue         float64
}

func NewYIIMeasurer(measurementLabel string) *EfficiencyMeasurer {
	return &EfficiencyMeasurer{Kind: KindYII, MeasurementLabel: measurementLabel, Bins: 256, MaxValue: 1}
}

func NewNPQMeasurer(measurementLabel string) *EfficiencyMeasurer {
	return &EfficiencyMeasurer{Kind: KindNPQ, MeasurementLabel: measurementLabel, Bins: 256, MaxValue: 4}
}

func (m *EfficiencyMeasurer) Name() string {
	return string(m.Kind)
}

func (m *EfficiencyMeasurer) Measure(ctx context.Context, source *entity.Grid, filtered *entity.FilteredObject, label string) (*entity.AnalysisRecord, error) {
	_ = ctx
	if !source.SameSize(filtered.Mask) {
		return nil, fmt.Errorf("%s source %dx%d: %w", m.Kind, source.Width, source.Height, entity.ErrSizeMismatch)
	}
	vals := source.Masked(filtered.Mask)
	counts, centers := histogram(vals, m.Bins, 0, m.MaxValue)
	prefix := string(m.Kind) + "_"
	suffix := "_" + m.MeasurementLabel

	return &entity.AnalysisRecord{
		Sample:      label,
		Measurement: m.Name(),
		Area:        filtered.Area,
		Observations: []entity.Observation{
			{Variable: prefix + "hist" + suffix, Trait: "frequencies", Method: methodEfficiency, Scale: "none", Datatype: "list", Value: counts, Label: centers},
			{Variable: prefix + "peak" + suffix, Trait: "peak " + m.MeasurementLabel + " value", Method: methodEfficiency, Scale: "none", Datatype: "float", Value: peak(counts, centers), Label: "none"},
			{Variable: prefix + "median" + suffix, Trait: "median " + m.MeasurementLabel + " value", Method: methodEfficiency, Scale: "none", Datatype: "float", Value: median(vals), Label: "none"},
		},
	}, nil
}
