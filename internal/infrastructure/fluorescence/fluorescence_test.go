package fluorescence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

func grid(vals ...float64) *entity.Grid {
	g := entity.NewGrid(len(vals), 1)
	copy(g.Values, vals)
	return g
}

func fullMask(n int) *entity.Mask {
	m := entity.NewMask(n, 1)
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	return m
}

func TestFvFm(t *testing.T) {
	out, err := FvFm(grid(200, 100, 5), grid(1000, 0, 10), fullMask(3))
	require.NoError(t, err)
	require.InDelta(t, 0.8, out.Values[0], 1e-9)
	require.Zero(t, out.Values[1])
	require.InDelta(t, 0.5, out.Values[2], 1e-9)
}

func TestFqFm_RespectsMask(t *testing.T) {
	m := fullMask(2)
	m.Pix[1] = 0
	out, err := FqFm(grid(300, 300), grid(600, 600), m)
	require.NoError(t, err)
	require.InDelta(t, 0.5, out.Values[0], 1e-9)
	require.Zero(t, out.Values[1])
}

func TestNPQ(t *testing.T) {
	out, err := NPQ(grid(1000), grid(500), fullMask(1))
	require.NoError(t, err)
	require.InDelta(t, 1.0, out.Values[0], 1e-9)
}

func TestRatio_SizeMismatch(t *testing.T) {
	_, err := FvFm(grid(1, 2), grid(1), fullMask(2))
	require.ErrorIs(t, err, entity.ErrSizeMismatch)
}

func TestFrames_Has(t *testing.T) {
	f := &Frames{F0: grid(1), Fm: grid(2)}
	require.True(t, f.HasDark())
	require.False(t, f.HasLight())
}
