package port

import (
	"context"
	"image"

	"plant-phenotyper/internal/domain/entity"
)

// Registrar aligns an RGB image to the frame of a thermal grid.
type Registrar interface {
	Register(ctx context.Context, rgb image.Image, thermal *entity.Grid) (image.Image, error)
}
