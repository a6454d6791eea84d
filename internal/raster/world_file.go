package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/shopspring/decimal"
)

// Sidecar extensions probed for each image extension, in order
var worldFileExtensions = map[string][]string{
	".tif":  {".tfw", ".tifw", ".wld"},
	".tiff": {".tfw", ".tiffw", ".wld"},
	".png":  {".pgw", ".pngw", ".wld"},
}

// ParseWorldFile reads the six lines of an ESRI world file and returns the equivalent
// geotransform. World files reference the center of the upper left pixel while geotransforms
// reference its outer corner.
func ParseWorldFile(r io.Reader) (data.GeoTransform, error) {
	var coefficients []decimal.Decimal

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		value, err := decimal.NewFromString(line)
		if err != nil {
			return data.GeoTransform{}, fmt.Errorf("invalid world file coefficient %q: %w", line, err)
		}
		coefficients = append(coefficients, value)
	}
	if err := scanner.Err(); err != nil {
		return data.GeoTransform{}, err
	}
	if len(coefficients) != 6 {
		return data.GeoTransform{}, fmt.Errorf("world file has %d coefficients, expected 6", len(coefficients))
	}

	// A D B E C F
	a, d, b, e, c, f := coefficients[0], coefficients[1], coefficients[2], coefficients[3], coefficients[4], coefficients[5]
	half := decimal.NewFromFloat(0.5)

	originX := c.Sub(a.Mul(half)).Sub(b.Mul(half))
	originY := f.Sub(d.Mul(half)).Sub(e.Mul(half))

	return data.GeoTransform{
		originX.InexactFloat64(), a.InexactFloat64(), b.InexactFloat64(),
		originY.InexactFloat64(), d.InexactFloat64(), e.InexactFloat64(),
	}, nil
}

// findWorldFile returns the first existing sidecar of imagePath, or an empty string
func findWorldFile(imagePath string) (string, error) {
	ext := filepath.Ext(imagePath)
	base := strings.TrimSuffix(imagePath, ext)

	for _, candidateExt := range worldFileExtensions[strings.ToLower(ext)] {
		for _, variant := range []string{candidateExt, strings.ToUpper(candidateExt)} {
			candidate := base + variant
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
	}
	return "", nil
}

func readWorldFile(path string) (data.GeoTransform, error) {
	file, err := os.Open(path)
	if err != nil {
		return data.GeoTransform{}, err
	}
	defer file.Close()

	return ParseWorldFile(file)
}
