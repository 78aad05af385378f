package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

func constBand(v float64) *entity.Grid {
	g := entity.NewGrid(2, 1)
	g.Values = []float64{v, v}
	return g
}

func testCube(t *testing.T) *Cube {
	c := NewCube()
	require.NoError(t, c.AddBand(550, constBand(0.1)))
	require.NoError(t, c.AddBand(670, constBand(0.1)))
	require.NoError(t, c.AddBand(705, constBand(0.2)))
	require.NoError(t, c.AddBand(800, constBand(0.5)))
	return c
}

func TestCube_BandNearest(t *testing.T) {
	c := testCube(t)
	b, err := c.Band(700, DefaultDistance)
	require.NoError(t, err)
	require.Equal(t, 0.2, b.Values[0])

	_, err = c.Band(900, DefaultDistance)
	require.ErrorIs(t, err, ErrMissingWavelength)
	require.Equal(t, []float64{550, 670, 705, 800}, c.Wavelengths())
}

func TestCube_AddBandSizeMismatch(t *testing.T) {
	c := testCube(t)
	require.ErrorIs(t, c.AddBand(900, entity.NewGrid(3, 3)), entity.ErrSizeMismatch)
}

func TestIndices(t *testing.T) {
	c := testCube(t)

	g, err := NDVI.Compute(c, DefaultDistance)
	require.NoError(t, err)
	require.InDelta(t, 0.4/0.6, g.Values[0], 1e-9)

	g, err = ARI.Compute(c, DefaultDistance)
	require.NoError(t, err)
	require.InDelta(t, 5.0, g.Values[1], 1e-9)

	g, err = CIRedEdge.Compute(c, DefaultDistance)
	require.NoError(t, err)
	require.InDelta(t, 1.5, g.Values[0], 1e-9)
}

func TestIndices_ZeroReflectanceIsNotFinite(t *testing.T) {
	c := NewCube()
	require.NoError(t, c.AddBand(800, constBand(0)))
	require.NoError(t, c.AddBand(670, constBand(0)))
	g, err := NDVI.Compute(c, DefaultDistance)
	require.NoError(t, err)
	require.True(t, math.IsNaN(g.Values[0]))
}

func TestIndices_MissingBand(t *testing.T) {
	c := NewCube()
	require.NoError(t, c.AddBand(800, constBand(0.5)))
	_, err := ARI.Compute(c, DefaultDistance)
	require.ErrorIs(t, err, ErrMissingWavelength)
}
