package visualize

import (
	"context"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

func TestJetEnds(t *testing.T) {
	require.Equal(t, color.RGBA{B: 128, A: 255}, Jet(0))
	require.Equal(t, color.RGBA{R: 128, A: 255}, Jet(1))
	require.Equal(t, Jet(1), Jet(5))
}

func TestAnchorsEnds(t *testing.T) {
	require.Equal(t, color.RGBA{R: 68, G: 1, B: 84, A: 255}, Viridis(0))
	require.Equal(t, color.RGBA{R: 253, G: 231, B: 37, A: 255}, Viridis(1))
	require.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, Gray(0.5))
}

func TestColormapByName(t *testing.T) {
	for _, name := range []string{"jet", "viridis", "Greens", "Purples", "gray"} {
		_, err := ColormapByName(name)
		require.NoError(t, err, name)
	}
	_, err := ColormapByName("rainbow")
	require.Error(t, err)
}

func TestPseudocolor(t *testing.T) {
	g := entity.NewGrid(3, 1)
	g.Values = []float64{20, 45, math.NaN()}
	m := entity.NewMask(3, 1)
	m.Set(1, 0, true)
	m.Set(2, 0, true)

	img := Pseudocolor(g, m, PseudocolorOptions{Colormap: Jet, Min: 20, Max: 45, Background: BackgroundBlack})
	require.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
	require.Equal(t, Jet(1), img.RGBAAt(1, 0))
	require.Equal(t, BadColor, img.RGBAAt(2, 0))

	img = Pseudocolor(g, m, PseudocolorOptions{Min: 20, Max: 45})
	require.Equal(t, Gray(0), img.RGBAAt(0, 0))
}

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewFileWriter(dir)
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	require.NoError(t, w.WriteImage(context.Background(), "plate_pseudo.jpg", img))

	back, err := imaging.Open(filepath.Join(dir, "plate_pseudo.jpg"))
	require.NoError(t, err)
	require.Equal(t, 8, back.Bounds().Dx())

	_, err = os.Stat(filepath.Join(dir, "plate_pseudo.jpg"))
	require.NoError(t, err)
}

func TestPreview(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	require.Same(t, small, Preview(small, 100))

	big := image.NewRGBA(image.Rect(0, 0, 400, 200))
	p := Preview(big, 100)
	require.Equal(t, 100, p.Bounds().Dx())
	require.Equal(t, 50, p.Bounds().Dy())
}
