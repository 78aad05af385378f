package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/internal/domain/entity"
)

const trayYAML = `
mode: partial
rois:
  - label: HLP_1
    circle: {x: 130, y: 118, r: 85}
  - label: WT_1
    rect: {x: 10, y: 10, w: 100, h: 80}
`

func TestLoadLayout(t *testing.T) {
	layout, mode, err := LoadLayout(strings.NewReader(trayYAML))
	require.NoError(t, err)
	require.Equal(t, entity.ModePartial, mode)
	require.Equal(t, []string{"HLP_1", "WT_1"}, layout.Labels())

	rois := layout.ROIs()
	require.Equal(t, entity.Circle(130, 118, 85), rois[0].Shape)
	require.Equal(t, entity.Rectangle(10, 10, 100, 80), rois[1].Shape)
}

func TestLoadLayout_DefaultMode(t *testing.T) {
	_, mode, err := LoadLayout(strings.NewReader("rois:\n  - label: a\n    circle: {x: 5, y: 5, r: 2}\n"))
	require.NoError(t, err)
	require.Empty(t, mode)
}

func TestLoadLayout_Errors(t *testing.T) {
	cases := map[string]struct {
		yaml string
		err  error
	}{
		"duplicate label": {"rois:\n  - {label: a, circle: {x: 1, y: 1, r: 1}}\n  - {label: a, circle: {x: 5, y: 5, r: 1}}\n", entity.ErrDuplicateLabel},
		"empty label":     {"rois:\n  - {circle: {x: 1, y: 1, r: 1}}\n", entity.ErrEmptyLabel},
		"two shapes":      {"rois:\n  - {label: a, circle: {x: 1, y: 1, r: 1}, rect: {x: 0, y: 0, w: 2, h: 2}}\n", entity.ErrInvalidShape},
		"no shape":        {"rois:\n  - {label: a}\n", entity.ErrInvalidShape},
		"mode":            {"mode: whole\nrois:\n  - {label: a, circle: {x: 1, y: 1, r: 1}}\n", entity.ErrUnknownMode},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := LoadLayout(strings.NewReader(tc.yaml))
			require.ErrorIs(t, err, tc.err)
		})
	}

	_, _, err := LoadLayout(strings.NewReader("rois: []\n"))
	require.Error(t, err)
	_, _, err = LoadLayout(strings.NewReader("rios: []\n"))
	require.Error(t, err)
}

func TestLoadLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tray.yaml")
	require.NoError(t, os.WriteFile(path, []byte(trayYAML), 0o644))

	layout, _, err := LoadLayoutFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, layout.Len())

	_, _, err = LoadLayoutFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
