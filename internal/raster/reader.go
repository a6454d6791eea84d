package raster

import (
	"github.com/ecopia-map/terrain_tiler/internal/data"
)

// Reader opens georeferenced rasters. Implementations must be safe for concurrent use.
type Reader interface {
	// Read decodes the raster at path. A raster without georeferencing is returned with a nil
	// GeoTransform; undecodable input yields a *tiler.RasterReadError.
	Read(path string) (*data.GeoRaster, error)

	// Supports reports whether the file extension is handled by the reader
	Supports(path string) bool
}
