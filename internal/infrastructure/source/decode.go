package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"

	_ "golang.org/x/image/tiff"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/domain/port"
)

var (
	// ErrRaggedCSV is returned when thermal CSV rows differ in length.
	ErrRaggedCSV = errors.New("thermal csv rows differ in length")
	ErrEmptyCSV  = errors.New("thermal csv has no values")
)

// ReadThermalCSV parses a camera CSV export: one image row per line, one
// temperature per comma-separated cell. Empty trailing cells are ignored.
func ReadThermalCSV(r io.Reader) (*entity.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows  [][]float64
		width = -1
	)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("thermal csv line %d: %w", line, err)
		}
		for len(rec) > 0 && strings.TrimSpace(rec[len(rec)-1]) == "" {
			rec = rec[:len(rec)-1]
		}
		if len(rec) == 0 {
			continue
		}
		row := make([]float64, len(rec))
		for i, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("thermal csv line %d col %d: %w", line, i+1, err)
			}
			row[i] = v
		}
		if width == -1 {
			width = len(row)
		} else if len(row) != width {
			return nil, fmt.Errorf("line %d has %d values, want %d: %w", line, len(row), width, ErrRaggedCSV)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCSV
	}

	g := entity.NewGrid(width, len(rows))
	for y, row := range rows {
		copy(g.Values[y*width:(y+1)*width], row)
	}
	return g, nil
}

// DecodeImage decodes PNG, JPEG or TIFF data.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ImageToGrid converts a raster to a float grid. 16-bit grayscale keeps its raw
// counts; other images become 8-bit luminance in [0, 255].
func ImageToGrid(img image.Image) *entity.Grid {
	b := img.Bounds()
	g := entity.NewGrid(b.Dx(), b.Dy())
	if g16, ok := img.(*image.Gray16); ok {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				g.Values[y*g.Width+x] = float64(g16.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return g
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			r, gr, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			g.Values[y*g.Width+x] = (0.299*float64(r) + 0.587*float64(gr) + 0.114*float64(bl)) / 257
		}
	}
	return g
}

// LoadThermal opens and parses a thermal CSV.
func LoadThermal(ctx context.Context, opener port.SourceOpener, location string) (*entity.Grid, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	g, err := ReadThermalCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return g, nil
}

// LoadImage opens and decodes a raster.
func LoadImage(ctx context.Context, opener port.SourceOpener, location string) (image.Image, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := DecodeImage(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return img, nil
}
