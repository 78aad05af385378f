// Package registration aligns RGB companion images to thermal frames.
package registration

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"gopkg.in/yaml.v3"

	"plant-phenotyper/internal/domain/entity"
)

// ErrInvalidModel is returned for model files that do not hold a usable transform.
var ErrInvalidModel = errors.New("invalid registration model")

// AffineModel maps RGB pixel coordinates to thermal pixel coordinates:
// x' = a*x + b*y + c, y' = d*x + e*y + f.
type AffineModel struct {
	Matrix [6]float64 `yaml:"matrix"`
	// Source describes how the model was fitted, for results metadata.
	Source string `yaml:"source,omitempty"`
}

// LoadAffineModel decodes a YAML model.
func LoadAffineModel(r io.Reader) (*AffineModel, error) {
	var m AffineModel
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	a, b, d, e := m.Matrix[0], m.Matrix[1], m.Matrix[3], m.Matrix[4]
	if a*e-b*d == 0 {
		return nil, fmt.Errorf("singular matrix %v: %w", m.Matrix, ErrInvalidModel)
	}
	return &m, nil
}

// LoadAffineModelFile reads a model from disk.
func LoadAffineModelFile(path string) (*AffineModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	return LoadAffineModel(f)
}

// AffineRegistrar warps RGB images into the thermal frame with bilinear sampling.
type AffineRegistrar struct {
	model *AffineModel
}

func NewAffineRegistrar(model *AffineModel) *AffineRegistrar {
	return &AffineRegistrar{model: model}
}

func (r *AffineRegistrar) Register(ctx context.Context, rgb image.Image, thermal *entity.Grid) (image.Image, error) {
	_ = ctx
	if thermal.Width == 0 || thermal.Height == 0 {
		return nil, fmt.Errorf("register: %w", entity.ErrSizeMismatch)
	}
	dst := image.NewRGBA(thermal.Bounds())
	s2d := f64.Aff3(r.model.Matrix)
	xdraw.BiLinear.Transform(dst, s2d, rgb, rgb.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// ResizeRegistrar stretches the RGB image to the thermal frame size. It suits
// rigs where both cameras share one field of view.
type ResizeRegistrar struct{}

func NewResizeRegistrar() *ResizeRegistrar {
	return &ResizeRegistrar{}
}

func (r *ResizeRegistrar) Register(ctx context.Context, rgb image.Image, thermal *entity.Grid) (image.Image, error) {
	_ = ctx
	if thermal.Width == 0 || thermal.Height == 0 {
		return nil, fmt.Errorf("register: %w", entity.ErrSizeMismatch)
	}
	b := rgb.Bounds()
	if b.Dx() == thermal.Width && b.Dy() == thermal.Height {
		return rgb, nil
	}
	return imaging.Resize(rgb, thermal.Width, thermal.Height, imaging.Linear), nil
}
