// Package fluorescence derives photosynthesis estimates from chlorophyll
// fluorescence frames.
package fluorescence

import (
	"fmt"

	"plant-phenotyper/internal/domain/entity"
)

// Frames are the measurement frames of one fluorescence protocol. F0/Fm are
// dark-adapted minimum and maximum, Fs/Fmp light-adapted steady state and maximum.
type Frames struct {
	Chl *entity.Grid
	F0  *entity.Grid
	Fm  *entity.Grid
	Fs  *entity.Grid
	Fmp *entity.Grid
}

// HasDark reports whether dark-adapted frames are present.
func (f *Frames) HasDark() bool {
	return f.F0 != nil && f.Fm != nil
}

// HasLight reports whether light-adapted frames are present.
func (f *Frames) HasLight() bool {
	return f.Fs != nil && f.Fmp != nil
}

// FvFm is the maximum PSII efficiency (Fm-F0)/Fm.
func FvFm(f0, fm *entity.Grid, mask *entity.Mask) (*entity.Grid, error) {
	return ratio(f0, fm, mask, func(a, b float64) float64 { return (b - a) / b })
}

// FqFm is the operating PSII efficiency (Fm'-Fs)/Fm'.
func FqFm(fs, fmp *entity.Grid, mask *entity.Mask) (*entity.Grid, error) {
	return ratio(fs, fmp, mask, func(a, b float64) float64 { return (b - a) / b })
}

// NPQ is non-photochemical quenching Fm/Fm' - 1.
func NPQ(fm, fmp *entity.Grid, mask *entity.Mask) (*entity.Grid, error) {
	return ratio(fm, fmp, mask, func(a, b float64) float64 { return a/b - 1 })
}

// ratio evaluates f(a, b) under the mask. Pixels outside the mask or with a
// non-positive denominator are 0.
func ratio(a, b *entity.Grid, mask *entity.Mask, f func(a, b float64) float64) (*entity.Grid, error) {
	if a.Width != b.Width || a.Height != b.Height || !a.SameSize(mask) {
		return nil, fmt.Errorf("frames %dx%d and %dx%d: %w", a.Width, a.Height, b.Width, b.Height, entity.ErrSizeMismatch)
	}
	out := entity.NewGrid(a.Width, a.Height)
	for i := range out.Values {
		if mask.Pix[i] == 0 || b.Values[i] <= 0 {
			continue
		}
		out.Values[i] = f(a.Values[i], b.Values[i])
	}
	return out, nil
}
