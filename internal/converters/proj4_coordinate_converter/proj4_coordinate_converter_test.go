package proj4_coordinate_converter

import (
	"testing"

	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProj4Definition(t *testing.T) {
	def, err := Proj4Definition(32632)
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs", def)

	def, err = Proj4Definition(32733)
	require.NoError(t, err)
	assert.Contains(t, def, "+zone=33 +south")

	_, err = Proj4Definition(999999)
	assert.Error(t, err)
}

func TestWGS84InputIsReturnedUntouched(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()

	in := geometry.Coordinate{X: 9.19, Y: 45.46, Z: 120}
	out, err := cc.ToWGS84Geodetic(in, 4326)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUTMToWGS84(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()

	// the central meridian of zone 32 is 9 degrees east
	out, err := cc.ToWGS84Geodetic(geometry.Coordinate{X: 500000, Y: 5000000, Z: 0}, 32632)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, out.X, 1e-9)
	assert.InDelta(t, 45.1, out.Y, 0.05)
}

func TestUnsupportedSrid(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()

	_, err := cc.ToWGS84Geodetic(geometry.Coordinate{X: 1, Y: 1}, 123)
	assert.Error(t, err)
}
