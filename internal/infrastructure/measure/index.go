package measure

import (
	"context"
	"fmt"

	"plant-phenotyper/internal/domain/entity"
)

const methodIndex = "measure.index"

// IndexMeasurer summarizes a spectral index (or any grayscale) grid. When
// MinBin/MaxBin are nil the histogram range follows the masked data.
type IndexMeasurer struct {
	Index  string // index name, suffixes the variable names
	Bins   int
	MinBin *float64
	MaxBin *float64
}

// NewIndexMeasurer returns a 100-bin measurer with the fixed range [lo, hi].
func NewIndexMeasurer(index string, lo, hi float64) *IndexMeasurer {
	return &IndexMeasurer{Index: index, Bins: 100, MinBin: &lo, MaxBin: &hi}
}

func (m *IndexMeasurer) Name() string {
	return "index_" + m.Index
}

func (m *IndexMeasurer) Measure(ctx context.Context, source *entity.Grid, filtered *entity.FilteredObject, label string) (*entity.AnalysisRecord, error) {
	_ = ctx
	if !source.SameSize(filtered.Mask) {
		return nil, fmt.Errorf("index %s source %dx%d: %w", m.Index, source.Width, source.Height, entity.ErrSizeMismatch)
	}
	vals := source.Masked(filtered.Mask)
	lo, hi := minMax(vals)
	if m.MinBin != nil {
		lo = *m.MinBin
	}
	if m.MaxBin != nil {
		hi = *m.MaxBin
	}
	bins := m.Bins
	if bins <= 0 {
		bins = 100
	}
	counts, centers := histogram(vals, bins, lo, hi)

	return &entity.AnalysisRecord{
		Sample:      label,
		Measurement: m.Name(),
		Area:        filtered.Area,
		Observations: []entity.Observation{
			{Variable: "mean_index_" + m.Index, Trait: "Average " + m.Index + " reflectance", Method: methodIndex, Scale: "reflectance", Datatype: "float", Value: mean(vals), Label: "none"},
			{Variable: "med_index_" + m.Index, Trait: "Median " + m.Index + " reflectance", Method: methodIndex, Scale: "reflectance", Datatype: "float", Value: median(vals), Label: "none"},
			{Variable: "std_index_" + m.Index, Trait: "Standard deviation " + m.Index + " reflectance", Method: methodIndex, Scale: "reflectance", Datatype: "float", Value: stddev(vals), Label: "none"},
			{Variable: "index_frequencies_" + m.Index, Trait: "index frequencies", Method: methodIndex, Scale: "frequency", Datatype: "list", Value: counts, Label: centers},
		},
	}, nil
}
