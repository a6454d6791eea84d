package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/golang/glog"
	_ "golang.org/x/image/tiff"
)

var supportedExtensions = map[string]bool{
	".tif":  true,
	".tiff": true,
	".png":  true,
}

// ImageReader reads single band elevation rasters stored as grayscale TIFF or PNG images and
// georeferenced by an ESRI world file sidecar. Samples are mapped to elevations as
// value*Scale + Offset.
type ImageReader struct {
	Srid        int
	Scale       float32
	Offset      float32
	SearchPaths []string
}

func NewImageReader(srid int, searchPaths []string) *ImageReader {
	return &ImageReader{
		Srid:        srid,
		Scale:       1,
		SearchPaths: searchPaths,
	}
}

func (r *ImageReader) Supports(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

func (r *ImageReader) Read(path string) (*data.GeoRaster, error) {
	resolved, err := ResolvePath(path, r.SearchPaths)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: path, Err: err}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: path, Err: err}
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: path, Err: err}
	}

	raster := &data.GeoRaster{
		Path: path,
		Srid: r.Srid,
	}
	raster.Width, raster.Height, raster.Data = r.samples(img)
	if raster.Width == 0 || raster.Height == 0 {
		return nil, &tiler.RasterReadError{Path: path, Err: errors.New("empty raster")}
	}

	worldFile, err := findWorldFile(resolved)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: path, Err: err}
	}
	if worldFile == "" {
		glog.Warningf("no world file found for %s", path)
		return raster, nil
	}

	transform, err := readWorldFile(worldFile)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: path, Err: fmt.Errorf("%s: %w", worldFile, err)}
	}
	raster.GeoTransform = &transform

	glog.V(2).Infof("read %s raster %s (%dx%d)", format, path, raster.Width, raster.Height)
	return raster, nil
}

func (r *ImageReader) samples(img image.Image) (int, int, []float32) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	samples := make([]float32, 0, width*height)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var value float32
			switch typed := img.(type) {
			case *image.Gray16:
				value = float32(typed.Gray16At(x, y).Y)
			case *image.Gray:
				value = float32(typed.GrayAt(x, y).Y)
			default:
				value = float32(color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y)
			}
			samples = append(samples, value*r.Scale+r.Offset)
		}
	}

	return width, height, samples
}

// ResolvePath returns path when it exists, otherwise the first search path entry containing it.
// Absolute paths are never searched.
func ResolvePath(path string, searchPaths []string) (string, error) {
	_, err := os.Stat(path)
	if err == nil || filepath.IsAbs(path) || !errors.Is(err, os.ErrNotExist) {
		return path, err
	}

	for _, folder := range searchPaths {
		candidate := filepath.Join(folder, path)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}
	return path, err
}

// LoadImage decodes the texture image at path into 8 bit RGBA
func LoadImage(path string, searchPaths []string) (*data.Image, error) {
	resolved, err := ResolvePath(path, searchPaths)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("cannot decode image %s: %w", path, err)
	}
	return data.FromGoImage(img), nil
}
