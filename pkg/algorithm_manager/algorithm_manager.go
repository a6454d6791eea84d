package algorithm_manager

import (
	"github.com/ecopia-map/terrain_tiler/internal/converters"
	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/raster"
	"github.com/ecopia-map/terrain_tiler/internal/serializer"
)

type AlgorithmManager interface {
	GetElevationCorrectionAlgorithm() converters.ElevationCorrector
	GetCoordinateConverterAlgorithm() converters.CoordinateConverter
	GetEllipsoid() *ellipsoid.Model
	GetRasterReader() raster.Reader
	GetSerializer() serializer.Serializer
}
