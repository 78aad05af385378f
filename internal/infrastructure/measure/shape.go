package measure

import (
	"context"
	"image"

	"plant-phenotyper/internal/domain/entity"
)

const methodShape = "measure.shape"

// ShapeMeasurer records size and position of the kept objects. It ignores the
// measurement source.
type ShapeMeasurer struct{}

func NewShapeMeasurer() *ShapeMeasurer {
	return &ShapeMeasurer{}
}

func (m *ShapeMeasurer) Name() string {
	return "shape"
}

func (m *ShapeMeasurer) Measure(ctx context.Context, source *entity.Grid, filtered *entity.FilteredObject, label string) (*entity.AnalysisRecord, error) {
	_ = ctx
	_ = source
	mask := filtered.Mask

	var (
		box        image.Rectangle
		sumX, sumY float64
		perimeter  int
		area       int
	)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if !mask.At(x, y) {
				continue
			}
			area++
			sumX += float64(x)
			sumY += float64(y)
			box = box.Union(image.Rect(x, y, x+1, y+1))
			if !mask.At(x-1, y) || !mask.At(x+1, y) || !mask.At(x, y-1) || !mask.At(x, y+1) {
				perimeter++
			}
		}
	}
	var cx, cy float64
	if area > 0 {
		cx, cy = sumX/float64(area), sumY/float64(area)
	}

	return &entity.AnalysisRecord{
		Sample:      label,
		Measurement: m.Name(),
		Area:        filtered.Area,
		Observations: []entity.Observation{
			{Variable: "area", Trait: "area", Method: methodShape, Scale: "pixels", Datatype: "int", Value: area, Label: "none"},
			{Variable: "perimeter", Trait: "perimeter", Method: methodShape, Scale: "pixels", Datatype: "int", Value: perimeter, Label: "none"},
			{Variable: "width", Trait: "width", Method: methodShape, Scale: "pixels", Datatype: "int", Value: box.Dx(), Label: "none"},
			{Variable: "height", Trait: "height", Method: methodShape, Scale: "pixels", Datatype: "int", Value: box.Dy(), Label: "none"},
			{Variable: "center_of_mass", Trait: "center of mass", Method: methodShape, Scale: "none", Datatype: "list", Value: []float64{cx, cy}, Label: []string{"x", "y"}},
			{Variable: "object_count", Trait: "number of objects", Method: methodShape, Scale: "none", Datatype: "int", Value: len(filtered.Objects), Label: "none"},
		},
	}, nil
}
