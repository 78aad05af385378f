package entity

import "errors"

var (
	// ErrEmptyMask is returned when a mask has no pixels at all.
	ErrEmptyMask = errors.New("mask is empty")
	// ErrSizeMismatch is returned when two rasters that must be aligned differ in size.
	ErrSizeMismatch = errors.New("raster size mismatch")
	// ErrROIOutOfBounds is returned when an ROI extends outside the image.
	ErrROIOutOfBounds = errors.New("roi extends outside of the image")
	// ErrLabelCountMismatch is returned when ROI and label counts differ.
	ErrLabelCountMismatch = errors.New("number of rois and labels differ")
	// ErrDuplicateLabel is returned when two ROIs share a label.
	ErrDuplicateLabel = errors.New("duplicate roi label")
	ErrEmptyLabel     = errors.New("empty roi label")
	ErrInvalidShape   = errors.New("invalid roi shape")
	ErrUnknownMode    = errors.New("unknown roi filter mode")
)
