package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"plant-phenotyper/internal/domain/entity"
)

// LayoutFile is the YAML form of an ROI layout:
//
//	mode: cutto
//	rois:
//	  - label: HLP_1
//	    circle: {x: 130, y: 118, r: 85}
//	  - label: WT_1
//	    rect: {x: 10, y: 10, w: 100, h: 80}
type LayoutFile struct {
	Mode string    `yaml:"mode"`
	ROIs []roiFile `yaml:"rois"`
}

type roiFile struct {
	Label  string      `yaml:"label"`
	Circle *circleFile `yaml:"circle"`
	Rect   *rectFile   `yaml:"rect"`
}

type circleFile struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	R int `yaml:"r"`
}

type rectFile struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// LoadLayout parses and validates a YAML layout. An absent mode is returned as
// "" so each workflow applies its own default.
func LoadLayout(r io.Reader) (*entity.Layout, entity.FilterMode, error) {
	var f LayoutFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, "", fmt.Errorf("decode layout: %w", err)
	}

	var mode entity.FilterMode
	if f.Mode != "" {
		m, err := entity.ParseFilterMode(f.Mode)
		if err != nil {
			return nil, "", err
		}
		mode = m
	}

	if len(f.ROIs) == 0 {
		return nil, "", errors.New("layout has no rois")
	}
	rois := make([]entity.ROI, 0, len(f.ROIs))
	for i, roi := range f.ROIs {
		var shape entity.Shape
		switch {
		case roi.Circle != nil && roi.Rect == nil:
			shape = entity.Circle(roi.Circle.X, roi.Circle.Y, roi.Circle.R)
		case roi.Rect != nil && roi.Circle == nil:
			shape = entity.Rectangle(roi.Rect.X, roi.Rect.Y, roi.Rect.W, roi.Rect.H)
		default:
			return nil, "", fmt.Errorf("roi %d (%q) needs exactly one of circle or rect: %w", i, roi.Label, entity.ErrInvalidShape)
		}
		rois = append(rois, entity.ROI{Label: roi.Label, Shape: shape})
	}

	layout, err := entity.NewLayoutFromROIs(rois)
	if err != nil {
		return nil, "", err
	}
	return layout, mode, nil
}

func LoadLayoutFile(path string) (*entity.Layout, entity.FilterMode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()
	layout, mode, err := LoadLayout(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return layout, mode, nil
}
