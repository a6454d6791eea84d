package tools

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/terrain_tiler/internal/raster"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestGetTilesToProcess(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "dem_1_0.tif"))
	touch(t, filepath.Join(dir, "dem_0_1.png"))
	touch(t, filepath.Join(dir, "dem_0_0.TIF"))
	touch(t, filepath.Join(dir, "dem.tif"))
	touch(t, filepath.Join(dir, "dem_0_0.tfw"))
	touch(t, filepath.Join(dir, "dem_0_0.txt"))
	touch(t, filepath.Join(dir, "nested", "dem_2_2.tif"))

	opts := tiler.DefaultTilerOptions()
	opts.Input = dir
	reader := raster.NewImageReader(tiler.DefaultSrid, nil)

	tiles, err := NewStandardFileFinder().GetTilesToProcess(opts, reader)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "dem_0_0.TIF"),
		filepath.Join(dir, "dem_0_1.png"),
		filepath.Join(dir, "dem_1_0.tif"),
	}, tiles)

	opts.Recursive = true
	tiles, err = NewStandardFileFinder().GetTilesToProcess(opts, reader)
	require.NoError(t, err)
	assert.Len(t, tiles, 4)
	assert.Contains(t, tiles, filepath.Join(dir, "nested", "dem_2_2.tif"))
}

func TestGetTilesToProcessMissingInput(t *testing.T) {
	opts := tiler.DefaultTilerOptions()
	opts.Input = filepath.Join(t.TempDir(), "missing")

	_, err := NewStandardFileFinder().GetTilesToProcess(opts, raster.NewImageReader(tiler.DefaultSrid, nil))
	assert.Error(t, err)
}

func TestGetSearchPaths(t *testing.T) {
	t.Setenv(EnvSearchPaths, "a"+string(os.PathListSeparator)+string(os.PathListSeparator)+"b")
	assert.Equal(t, []string{"a", "b"}, GetSearchPaths())

	t.Setenv(EnvSearchPaths, "")
	assert.Empty(t, GetSearchPaths())
}

func TestResolveWorkPaths(t *testing.T) {
	t.Setenv(EnvWorkDir, "")
	assert.Equal(t, "tiles", ResolveWorkPath("tiles"))

	workDir := t.TempDir()
	touch(t, filepath.Join(workDir, "base.png"))
	t.Setenv(EnvWorkDir, workDir)

	opts := tiler.DefaultTilerOptions()
	opts.Input = "tiles"
	opts.Output = "/var/out"
	opts.TexturePath = "base.png"
	ResolveWorkPaths(opts)

	assert.Equal(t, filepath.Join(workDir, "tiles"), opts.Input)
	assert.Equal(t, "/var/out", opts.Output)
	assert.Equal(t, filepath.Join(workDir, "base.png"), opts.TexturePath)

	// left relative for the search paths
	opts.TexturePath = "shared.png"
	ResolveWorkPaths(opts)
	assert.Equal(t, "shared.png", opts.TexturePath)
}

func TestParseFloatList(t *testing.T) {
	values, err := ParseFloatList(" 0.5, 1 ,0", 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1, 0}, values)

	_, err = ParseFloatList("1,2", 3)
	assert.Error(t, err)
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLoggerOutput(&buf)
	defer SetLoggerOutput(os.Stdout)
	DisableLoggerTimestamp()
	defer EnableLoggerTimestamp()

	LogOutput("hello", 42)
	assert.Equal(t, "hello 42\n", buf.String())

	DisableLogger()
	LogOutput("muted")
	EnableLogger()
	assert.Equal(t, "hello 42\n", buf.String())

	buf.Reset()
	progress := NewProgressLogger(2)
	for i := 1; i <= 3; i++ {
		progress(i, 3)
	}
	assert.Equal(t, "processed 2/3 tiles\nprocessed 3/3 tiles\n", buf.String())
}
