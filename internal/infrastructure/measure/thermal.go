package measure

import (
	"context"
	"fmt"
	"math"

	"plant-phenotyper/internal/domain/entity"
)

const methodThermal = "measure.thermal"

// ThermalMeasurer summarizes temperatures (°C) under one ROI's filtered mask.
type ThermalMeasurer struct{}

func NewThermalMeasurer() *ThermalMeasurer {
	return &ThermalMeasurer{}
}

func (m *ThermalMeasurer) Name() string {
	return "thermal"
}

func (m *ThermalMeasurer) Measure(ctx context.Context, source *entity.Grid, filtered *entity.FilteredObject, label string) (*entity.AnalysisRecord, error) {
	_ = ctx
	if !source.SameSize(filtered.Mask) {
		return nil, fmt.Errorf("thermal source %dx%d: %w", source.Width, source.Height, entity.ErrSizeMismatch)
	}
	temps := source.Masked(filtered.Mask)
	lo, hi := minMax(temps)

	// One bin per degree between the coldest and warmest pixel.
	bins := int(math.Ceil(hi - lo))
	if bins < 1 {
		bins = 1
	}
	counts, centers := histogram(temps, bins, lo, hi)

	return &entity.AnalysisRecord{
		Sample:      label,
		Measurement: m.Name(),
		Area:        filtered.Area,
		Observations: []entity.Observation{
			{Variable: "max_temp", Trait: "maximum temperature", Method: methodThermal, Scale: "degrees", Datatype: "float", Value: hi, Label: "degrees"},
			{Variable: "min_temp", Trait: "minimum temperature", Method: methodThermal, Scale: "degrees", Datatype: "float", Value: lo, Label: "degrees"},
			{Variable: "mean_temp", Trait: "mean temperature", Method: methodThermal, Scale: "degrees", Datatype: "float", Value: mean(temps), Label: "degrees"},
			{Variable: "median_temp", Trait: "median temperature", Method: methodThermal, Scale: "degrees", Datatype: "float", Value: median(temps), Label: "degrees"},
			{Variable: "std_temp", Trait: "temperature standard deviation", Method: methodThermal, Scale: "degrees", Datatype: "float", Value: stddev(temps), Label: "degrees"},
			{Variable: "thermal_frequencies", Trait: "thermal frequencies", Method: methodThermal, Scale: "frequency", Datatype: "list", Value: counts, Label: centers},
		},
	}, nil
}
