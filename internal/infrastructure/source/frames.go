package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/infrastructure/fluorescence"
	"plant-phenotyper/internal/infrastructure/spectral"
)

// ErrNoChlorophyllFrame is returned when an export directory lacks the Chl frame.
var ErrNoChlorophyllFrame = errors.New("chlorophyll frame not found")

var frameExtensions = map[string]bool{".png": true, ".tif": true, ".tiff": true, ".jpg": true, ".jpeg": true}

// FrameSet is the decoded content of one fluorescence export directory.
type FrameSet struct {
	Dir    string
	Chl    image.Image
	Frames *fluorescence.Frames
	Cube   *spectral.Cube
}

// LoadFrameSet reads an export directory: frames named Chl, F0, Fm, Fs, Fmp and
// reflectance bands named R<nm> (e.g. R670.tif). Only Chl is required.
func LoadFrameSet(ctx context.Context, dir string) (*FrameSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}
	opener := NewLocalOpener()
	set := &FrameSet{Dir: dir, Frames: &fluorescence.Frames{}, Cube: spectral.NewCube()}

	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !frameExtensions[ext] {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		path := filepath.Join(dir, e.Name())

		if wl, ok := bandWavelength(stem); ok {
			img, err := LoadImage(ctx, opener, path)
			if err != nil {
				return nil, err
			}
			if err := set.Cube.AddBand(wl, Reflectance(img)); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			continue
		}

		var dst **entity.Grid
		switch stem {
		case "Chl":
			img, err := LoadImage(ctx, opener, path)
			if err != nil {
				return nil, err
			}
			set.Chl = img
			set.Frames.Chl = ImageToGrid(img)
			continue
		case "F0":
			dst = &set.Frames.F0
		case "Fm":
			dst = &set.Frames.Fm
		case "Fs":
			dst = &set.Frames.Fs
		case "Fmp":
			dst = &set.Frames.Fmp
		default:
			continue
		}
		img, err := LoadImage(ctx, opener, path)
		if err != nil {
			return nil, err
		}
		*dst = ImageToGrid(img)
	}

	if set.Chl == nil {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoChlorophyllFrame)
	}
	return set, nil
}

// bandWavelength parses "R<nm>" band names.
func bandWavelength(stem string) (float64, bool) {
	if len(stem) < 2 || stem[0] != 'R' {
		return 0, false
	}
	wl, err := strconv.ParseFloat(stem[1:], 64)
	if err != nil || wl <= 0 {
		return 0, false
	}
	return wl, true
}

// Reflectance scales a band image into [0, 1] by its bit depth.
func Reflectance(img image.Image) *entity.Grid {
	g := ImageToGrid(img)
	scale := 255.0
	if _, ok := img.(*image.Gray16); ok {
		scale = 65535
	}
	for i := range g.Values {
		g.Values[i] /= scale
	}
	return g
}
