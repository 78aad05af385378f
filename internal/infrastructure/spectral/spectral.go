// Package spectral computes vegetation indices from multi-band reflectance.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"plant-phenotyper/internal/domain/entity"
)

// ErrMissingWavelength is returned when no band lies close enough to a required
// wavelength.
var ErrMissingWavelength = errors.New("required wavelength not available")

// DefaultDistance is how far (nm) a band may be from the requested wavelength.
const DefaultDistance = 20.0

// Cube holds co-registered reflectance bands keyed by wavelength in nm.
type Cube struct {
	Width  int
	Height int
	bands  map[float64]*entity.Grid
}

func NewCube() *Cube {
	return &Cube{bands: make(map[float64]*entity.Grid)}
}

// AddBand stores a band. All bands must share one size.
func (c *Cube) AddBand(wavelength float64, band *entity.Grid) error {
	if len(c.bands) == 0 {
		c.Width, c.Height = band.Width, band.Height
	} else if band.Width != c.Width || band.Height != c.Height {
		return fmt.Errorf("band %.0fnm %dx%d, cube %dx%d: %w", wavelength, band.Width, band.Height, c.Width, c.Height, entity.ErrSizeMismatch)
	}
	c.bands[wavelength] = band
	return nil
}

// Wavelengths returns the available wavelengths in ascending order.
func (c *Cube) Wavelengths() []float64 {
	out := make([]float64, 0, len(c.bands))
	for wl := range c.bands {
		out = append(out, wl)
	}
	sort.Float64s(out)
	return out
}

func (c *Cube) Len() int {
	return len(c.bands)
}

// Band returns the band nearest to wavelength, if within distance nm.
func (c *Cube) Band(wavelength, distance float64) (*entity.Grid, error) {
	best, bestDist := 0.0, math.Inf(1)
	for _, wl := range c.Wavelengths() {
		if d := math.Abs(wl - wavelength); d < bestDist {
			best, bestDist = wl, d
		}
	}
	if bestDist > distance {
		return nil, fmt.Errorf("%.0fnm within %.0fnm: %w", wavelength, distance, ErrMissingWavelength)
	}
	return c.bands[best], nil
}

// Index names a supported vegetation index.
type Index struct {
	Name string
	// Range is the display and histogram range.
	Min, Max float64
	compute  func(c *Cube, distance float64) (*entity.Grid, error)
}

// Compute evaluates the index over the whole cube.
func (i Index) Compute(c *Cube, distance float64) (*entity.Grid, error) {
	g, err := i.compute(c, distance)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i.Name, err)
	}
	return g, nil
}

var (
	// NDVI is the normalized difference vegetation index, (R800-R670)/(R800+R670).
	NDVI = Index{Name: "ndvi", Min: 0, Max: 1, compute: ndvi}
	// ARI is the anthocyanin reflectance index, 1/R550 - 1/R700.
	ARI = Index{Name: "ari", Min: 0, Max: 10, compute: ari}
	// CIRedEdge is the red-edge chlorophyll index, R800/R700 - 1.
	CIRedEdge = Index{Name: "ci_rededge", Min: 0, Max: 5, compute: ciRedEdge}
)

// All lists the indices computed by the fluorescence workflow.
func All() []Index {
	return []Index{ARI, NDVI, CIRedEdge}
}

func ndvi(c *Cube, distance float64) (*entity.Grid, error) {
	return combine(c, distance, []float64{800, 670}, func(v []float64) float64 {
		return (v[0] - v[1]) / (v[0] + v[1])
	})
}

func ari(c *Cube, distance float64) (*entity.Grid, error) {
	return combine(c, distance, []float64{550, 700}, func(v []float64) float64 {
		return 1/v[0] - 1/v[1]
	})
}

func ciRedEdge(c *Cube, distance float64) (*entity.Grid, error) {
	return combine(c, distance, []float64{800, 700}, func(v []float64) float64 {
		return v[0]/v[1] - 1
	})
}

// combine applies f pixelwise to the bands nearest each wavelength. Division by
// zero yields NaN or Inf, which measurements skip.
func combine(c *Cube, distance float64, wavelengths []float64, f func([]float64) float64) (*entity.Grid, error) {
	bands := make([]*entity.Grid, len(wavelengths))
	for i, wl := range wavelengths {
		b, err := c.Band(wl, distance)
		if err != nil {
			return nil, err
		}
		bands[i] = b
	}
	out := entity.NewGrid(c.Width, c.Height)
	v := make([]float64, len(bands))
	for p := range out.Values {
		for i, b := range bands {
			v[i] = b.Values[p]
		}
		out.Values[p] = f(v)
	}
	return out, nil
}
