package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"plant-phenotyper/config"
	"plant-phenotyper/internal/infrastructure/raster"
	"plant-phenotyper/internal/infrastructure/vision"
	"plant-phenotyper/internal/logger"
)

func TestNew_DefaultsToRaster(t *testing.T) {
	c, err := New(&config.Config{Engine: config.EngineRaster, Workers: 2}, Options{}, logger.NewNop())
	require.NoError(t, err)
	require.Equal(t, "raster", c.Engine.Name())
	require.IsType(t, &raster.OtsuSegmenter{}, c.ChlorophyllSegmenter)
	require.NotNil(t, c.ThermalService)
	require.NotNil(t, c.FluorescenceService)
	require.NotNil(t, c.BatchService)
	require.NotNil(t, c.ResultsWriter)
	require.Nil(t, c.Notifier)
}

func TestNew_GoCVEngine(t *testing.T) {
	c, err := New(&config.Config{Engine: config.EngineGoCV, Workers: 1}, Options{}, logger.NewNop())
	require.NoError(t, err)
	require.Equal(t, "gocv", c.Engine.Name())
	require.IsType(t, &vision.OtsuSegmenter{}, c.ChlorophyllSegmenter)
}

func TestNew_RegistrationModel(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(good, []byte("matrix: [1, 0, 2, 0, 1, 3]\n"), 0o644))

	_, err := New(&config.Config{Engine: config.EngineRaster, Workers: 1}, Options{ModelPath: good, OutDir: dir}, logger.NewNop())
	require.NoError(t, err)

	_, err = New(&config.Config{Engine: config.EngineRaster, Workers: 1}, Options{ModelPath: filepath.Join(dir, "missing.yaml")}, logger.NewNop())
	require.Error(t, err)
}
