package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	paths, err := ResolvePaths(PathsConfig{
		BaseDir:   base,
		DataDir:   "input",
		ChartsDir: abs,
	})
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "input"), paths.DataDir)
	assert.Equal(t, abs, paths.ChartsDir)
	assert.Equal(t, filepath.Join(base, DefaultExportsDir), paths.ExportsDir)
	assert.Equal(t, filepath.Join(base, DefaultLogsDir), paths.LogsDir)

	assert.Equal(t, filepath.Join(abs, "forest.png"), paths.GetChartPath("forest.png"))
	assert.Equal(t, filepath.Join(base, "input", "a.csv"), paths.GetDataPath("a.csv"))
	assert.Equal(t, filepath.Join(base, DefaultExportsDir, "a.xlsx"), paths.GetExportPath("a.xlsx"))
	assert.Equal(t, filepath.Join(base, DefaultLogsDir, "x.log"), paths.GetLogPath("x.log"))
}

func TestResolvePaths_ExecutableFallback(t *testing.T) {
	paths, err := ResolvePaths(PathsConfig{})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(paths.BaseDir))
	assert.Equal(t, filepath.Join(paths.BaseDir, DefaultDataDir), paths.DataDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths, err := ResolvePaths(PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.ChartsDir, paths.ExportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.False(t, FileExists(paths.DataDir), "data directory is input only")

	// Idempotent
	require.NoError(t, paths.EnsureDirectories())
}

func TestResolveSource(t *testing.T) {
	base := t.TempDir()
	paths, err := ResolvePaths(PathsConfig{BaseDir: base})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))

	inData := paths.GetDataPath("forest land.csv")
	require.NoError(t, os.WriteFile(inData, []byte("x"), 0644))

	assert.Equal(t, inData, paths.ResolveSource("forest land.csv"))
	assert.Equal(t, "/abs/file.csv", paths.ResolveSource("/abs/file.csv"))
	assert.Equal(t, paths.GetDataPath("missing.csv"), paths.ResolveSource("missing.csv"))
}
