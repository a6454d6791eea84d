package converters

import (
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
)

const WGS84Srid = 4326

// Converts raster grid coordinates expressed in the raster CRS to WGS84 longitude/latitude degrees
type CoordinateConverter interface {
	ToWGS84Geodetic(coord geometry.Coordinate, sourceSrid int) (geometry.Coordinate, error)
	Cleanup()
}

// Adjusts the altitude assigned to a geodetic position before it is projected to ECEF
type ElevationCorrector interface {
	CorrectElevation(lon, lat, z float64) float64
}
