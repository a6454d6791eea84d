package raster

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGray16PNG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(y*width + x)})
		}
	}

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
}

func TestParseWorldFile(t *testing.T) {
	content := "0.5\n0\n0\n-0.25\n10.25\n45.875\n"

	transform, err := ParseWorldFile(strings.NewReader(content))
	require.NoError(t, err)

	assert.InDelta(t, 10.0, transform.OriginX(), 1e-12)
	assert.InDelta(t, 0.5, transform.PixelSizeX(), 1e-12)
	assert.InDelta(t, 46.0, transform.OriginY(), 1e-12)
	assert.InDelta(t, -0.25, transform.PixelSizeY(), 1e-12)
}

func TestParseWorldFileRejectsMalformedInput(t *testing.T) {
	_, err := ParseWorldFile(strings.NewReader("1\n0\n0\n-1\n"))
	assert.Error(t, err)

	_, err = ParseWorldFile(strings.NewReader("1\n0\nfoo\n-1\n0\n0\n"))
	assert.Error(t, err)
}

func TestImageReaderReadsSamplesAndWorldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dem_3_4.png")
	writeGray16PNG(t, path, 4, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dem_3_4.pgw"), []byte("0.01\n0\n0\n-0.01\n7.005\n45.995\n"), 0644))

	reader := NewImageReader(4326, nil)
	reader.Offset = -100

	raster, err := reader.Read(path)
	require.NoError(t, err)

	assert.Equal(t, 4, raster.Width)
	assert.Equal(t, 3, raster.Height)
	assert.Equal(t, 4326, raster.Srid)
	assert.Equal(t, float32(-100), raster.At(0, 0))
	assert.Equal(t, float32(6-100), raster.At(2, 1))
	require.True(t, raster.HasGeoTransform())
	assert.InDelta(t, 7.0, raster.GeoTransform.OriginX(), 1e-12)
	assert.InDelta(t, 46.0, raster.GeoTransform.OriginY(), 1e-12)
}

func TestImageReaderWithoutWorldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dem_0_0.png")
	writeGray16PNG(t, path, 2, 2)

	raster, err := NewImageReader(4326, nil).Read(path)
	require.NoError(t, err)
	assert.False(t, raster.HasGeoTransform())
}

func TestImageReaderUnreadableRaster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dem_0_0.tif")
	require.NoError(t, os.WriteFile(path, []byte("not a tiff"), 0644))

	_, err := NewImageReader(4326, nil).Read(path)

	var readErr *tiler.RasterReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, path, readErr.Path)
}

func TestSupports(t *testing.T) {
	reader := NewImageReader(4326, nil)
	assert.True(t, reader.Supports("a/dem_1_2.tif"))
	assert.True(t, reader.Supports("a/dem_1_2.TIFF"))
	assert.True(t, reader.Supports("dem_1_2.png"))
	assert.False(t, reader.Supports("dem_1_2.tfw"))
	assert.False(t, reader.Supports("dem_1_2.pgw"))
}

func TestResolvePathUsesSearchPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "texture.png"), []byte{}, 0644))

	resolved, err := ResolvePath("texture.png", []string{t.TempDir(), dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "texture.png"), resolved)

	_, err = ResolvePath("missing.png", []string{dir})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
