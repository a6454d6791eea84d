package proj4_coordinate_converter

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ecopia-map/terrain_tiler/internal/converters"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	proj "github.com/xeonx/proj4"
)

const toRadians = math.Pi / 180
const toDegrees = 180 / math.Pi

type epsgProjection struct {
	EpsgCode   int
	Proj4      string
	Projection *proj.Proj
}

// Converts coordinates through proj.4. Geographic WGS84 input never reaches the library.
// proj.4 handles are not safe for concurrent use so every transform holds the converter lock.
type proj4CoordinateConverter struct {
	EpsgDatabase map[int]*epsgProjection
	sync.Mutex
}

func NewProj4CoordinateConverter() converters.CoordinateConverter {
	return &proj4CoordinateConverter{
		EpsgDatabase: make(map[int]*epsgProjection),
	}
}

// Proj4Definition returns the proj.4 definition string of the supported EPSG codes
func Proj4Definition(srid int) (string, error) {
	switch {
	case srid == 4326:
		return "+proj=longlat +datum=WGS84 +no_defs", nil
	case srid == 4258:
		return "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs", nil
	case srid == 3857:
		return "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs", nil
	case srid == 3395:
		return "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs", nil
	case srid == 3035:
		return "+proj=laea +lat_0=52 +lon_0=10 +x_0=4321000 +y_0=3210000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs", nil
	case srid >= 32601 && srid <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", srid-32600), nil
	case srid >= 32701 && srid <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", srid-32700), nil
	}
	return "", fmt.Errorf("epsg code %d not supported", srid)
}

func (cc *proj4CoordinateConverter) ToWGS84Geodetic(coord geometry.Coordinate, sourceSrid int) (geometry.Coordinate, error) {
	// Safe return if no transform needed
	if sourceSrid == converters.WGS84Srid || sourceSrid == 0 {
		return coord, nil
	}

	cc.Lock()
	defer cc.Unlock()

	src, err := cc.initProjection(sourceSrid)
	if err != nil {
		return coord, err
	}

	dst, err := cc.initProjection(converters.WGS84Srid)
	if err != nil {
		return coord, err
	}

	return executeConversion(coord, src, dst)
}

// Releases all the proj.4 handles opened so far
func (cc *proj4CoordinateConverter) Cleanup() {
	cc.Lock()
	defer cc.Unlock()

	for code, val := range cc.EpsgDatabase {
		if val.Projection != nil {
			val.Projection.Close()
		}
		delete(cc.EpsgDatabase, code)
	}
}

func (cc *proj4CoordinateConverter) initProjection(code int) (*proj.Proj, error) {
	val, ok := cc.EpsgDatabase[code]
	if ok && val.Projection != nil {
		return val.Projection, nil
	}

	definition, err := Proj4Definition(code)
	if err != nil {
		return nil, err
	}

	projection, err := proj.InitPlus(definition)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize projection %d: %w", code, err)
	}

	cc.EpsgDatabase[code] = &epsgProjection{
		EpsgCode:   code,
		Proj4:      definition,
		Projection: projection,
	}
	return projection, nil
}

func executeConversion(coord geometry.Coordinate, sourceProj *proj.Proj, destinationProj *proj.Proj) (geometry.Coordinate, error) {
	x := []float64{coord.X}
	y := []float64{coord.Y}
	z := []float64{coord.Z}

	if sourceProj.IsLatLong() {
		x[0] *= toRadians
		y[0] *= toRadians
	}

	if err := proj.TransformRaw(sourceProj, destinationProj, x, y, z); err != nil {
		return coord, err
	}

	if destinationProj.IsLatLong() {
		x[0] *= toDegrees
		y[0] *= toDegrees
	}

	if math.IsNaN(x[0]) || math.IsNaN(y[0]) || math.IsInf(x[0], 0) || math.IsInf(y[0], 0) {
		return coord, errors.New("coordinate outside of the projection domain")
	}

	return geometry.Coordinate{X: x[0], Y: y[0], Z: z[0]}, nil
}
