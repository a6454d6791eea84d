package std_algorithm_manager

import (
	"github.com/ecopia-map/terrain_tiler/internal/converters"
	"github.com/ecopia-map/terrain_tiler/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/terrain_tiler/internal/converters/proj4_coordinate_converter"
	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/raster"
	"github.com/ecopia-map/terrain_tiler/internal/serializer"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options             *tiler.TilerOptions
	coordinateConverter converters.CoordinateConverter
	elevationCorrector  converters.ElevationCorrector
	ellipsoid           *ellipsoid.Model
	reader              raster.Reader
	serializer          serializer.Serializer
}

func NewAlgorithmManager(opts *tiler.TilerOptions) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		options:             opts,
		coordinateConverter: proj4_coordinate_converter.NewProj4CoordinateConverter(),
		elevationCorrector:  offset_elevation_corrector.NewOffsetElevationCorrector(opts.ZOffset),
		ellipsoid:           ellipsoid.NewWGS84(),
		reader:              raster.NewImageReader(opts.Srid, opts.SearchPaths),
		serializer:          serializer.NewFileSerializer(serializer.FormatFor(opts.Text)),
	}
}

func (am *StandardAlgorithmManager) GetElevationCorrectionAlgorithm() converters.ElevationCorrector {
	return am.elevationCorrector
}

func (am *StandardAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	return am.coordinateConverter
}

func (am *StandardAlgorithmManager) GetEllipsoid() *ellipsoid.Model {
	return am.ellipsoid
}

func (am *StandardAlgorithmManager) GetRasterReader() raster.Reader {
	return am.reader
}

func (am *StandardAlgorithmManager) GetSerializer() serializer.Serializer {
	return am.serializer
}
