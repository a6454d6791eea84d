package mesh

import (
	"errors"
	"testing"

	"github.com/ecopia-map/terrain_tiler/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wgs84Converter struct{}

func (wgs84Converter) ToWGS84Geodetic(coord geometry.Coordinate, _ int) (geometry.Coordinate, error) {
	return coord, nil
}

func (wgs84Converter) Cleanup() {}

func newTestBuilder() *Builder {
	return NewBuilder(
		ellipsoid.NewWGS84(),
		wgs84Converter{},
		offset_elevation_corrector.NewOffsetElevationCorrector(0),
	)
}

func newTestRaster(width, height int, transform *data.GeoTransform) *data.GeoRaster {
	return &data.GeoRaster{
		Path:         "dem_1_2.tif",
		Width:        width,
		Height:       height,
		Srid:         4326,
		GeoTransform: transform,
		Data:         make([]float32, width*height),
	}
}

func TestMeshCounts(t *testing.T) {
	builder := newTestBuilder()
	dims := [][2]int{{2, 2}, {2, 7}, {5, 3}, {64, 64}, {17, 129}}

	for _, dim := range dims {
		rows, cols := dim[0], dim[1]
		raster := newTestRaster(cols, rows, &data.GeoTransform{10, 0.001, 0, 46, 0, -0.001})

		geom, err := builder.Build(raster, false)
		require.NoError(t, err)

		m := geom.Mesh
		assert.Equal(t, rows*cols, m.NumVertices())
		assert.Len(t, m.TexCoords, rows*cols)
		assert.Len(t, m.Normals, rows*cols)
		assert.Equal(t, (rows-1)*(cols-1)*6, m.NumIndices())
	}
}

func TestIndexWidthSelection(t *testing.T) {
	assert.Equal(t, Index16, IndexWidthFor(65535))
	assert.Equal(t, Index32, IndexWidthFor(65536))

	builder := newTestBuilder()
	cases := []struct {
		rows, cols int
		width      IndexWidth
	}{
		{rows: 255, cols: 257, width: Index16}, // 65535 vertices
		{rows: 256, cols: 257, width: Index32},
	}

	for _, tc := range cases {
		raster := newTestRaster(tc.cols, tc.rows, &data.GeoTransform{10, 0.0001, 0, 46, 0, -0.0001})
		geom, err := builder.Build(raster, false)
		require.NoError(t, err)

		m := geom.Mesh
		assert.Equal(t, tc.width, m.IndexWidth)
		if tc.width == Index16 {
			assert.Empty(t, m.Indices32)
		} else {
			assert.Empty(t, m.Indices16)
		}

		for i := 0; i < m.NumIndices(); i++ {
			idx := m.Index(i)
			if idx < 0 || idx >= m.NumVertices() {
				t.Fatalf("index %d out of range: %d", i, idx)
			}
		}
	}
}

func TestTriangulationWinding(t *testing.T) {
	raster := newTestRaster(3, 2, &data.GeoTransform{10, 0.01, 0, 46, 0, -0.01})
	geom, err := newTestBuilder().Build(raster, false)
	require.NoError(t, err)

	assert.Equal(t, []uint16{
		0, 1, 3, 3, 1, 4,
		1, 2, 4, 4, 2, 5,
	}, geom.Mesh.Indices16)
}

func TestTexCoordsAndNormals(t *testing.T) {
	raster := newTestRaster(5, 3, &data.GeoTransform{10, 0.01, 0, 46, 0, -0.01})
	geom, err := newTestBuilder().Build(raster, false)
	require.NoError(t, err)

	m := geom.Mesh
	assert.Equal(t, float32(0), m.TexCoords[0].X())
	assert.Equal(t, float32(1), m.TexCoords[4].X())
	assert.Equal(t, float32(0.5), m.TexCoords[5].Y())
	assert.Equal(t, float32(1), m.TexCoords[14].Y())
	for _, n := range m.Normals {
		assert.Equal(t, float32(1), n.Z())
	}
}

func TestFlatModeIsAlways32x32(t *testing.T) {
	raster := newTestRaster(512, 300, &data.GeoTransform{10, 0.0001, 0, 46, 0, -0.0001})
	geom, err := newTestBuilder().Build(raster, true)
	require.NoError(t, err)

	assert.Equal(t, FlatGridSize, geom.Mesh.Rows)
	assert.Equal(t, FlatGridSize, geom.Mesh.Cols)
	assert.Equal(t, 32*32, geom.Mesh.NumVertices())
	assert.Equal(t, 31*31*6, geom.Mesh.NumIndices())

	// the flat grid shares the full resolution centroid
	full, err := newTestBuilder().Build(raster, false)
	require.NoError(t, err)
	assert.InDelta(t, full.Frame.Centroid.X, geom.Frame.Centroid.X, 1e-12)
	assert.InDelta(t, full.Frame.Centroid.Y, geom.Frame.Centroid.Y, 1e-12)
}

func TestMissingGeoTransform(t *testing.T) {
	raster := newTestRaster(4, 4, nil)
	_, err := newTestBuilder().Build(raster, false)

	var metadataErr *tiler.RasterMetadataError
	require.True(t, errors.As(err, &metadataErr))
	assert.Equal(t, "dem_1_2.tif", metadataErr.Path)
}

func TestBoundContainsEveryVertex(t *testing.T) {
	transforms := []data.GeoTransform{
		{-0.05, 0.001, 0, 0.05, 0, -0.001},
		{8.0, 0.0005, 0, 47.0, 0, -0.0005},
		{140.0, 0.002, 0, -35.0, 0, -0.001},
	}

	for _, transform := range transforms {
		tr := transform
		raster := newTestRaster(101, 101, &tr)
		geom, err := newTestBuilder().Build(raster, false)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, geom.Bound.Radius, 0.0)

		model := ellipsoid.NewWGS84()
		origin := model.ToECEF(geometry.Coordinate{X: tr[0], Y: tr[3]})
		assert.GreaterOrEqual(t, geom.Bound.Radius+1e-9, origin.Sub(geom.Bound.Center).Len())

		for _, v := range geom.Mesh.Vertices {
			world := geom.Frame.ToWorld(mgl64.Vec3{float64(v.X()), float64(v.Y()), float64(v.Z())})
			require.True(t, geom.Bound.Contains(world, 0.01), "vertex %v outside bound", world)
		}
	}
}

func TestVerticesStayLocal(t *testing.T) {
	raster := newTestRaster(64, 64, &data.GeoTransform{100, 0.001, 0, 60, 0, -0.001})
	geom, err := newTestBuilder().Build(raster, false)
	require.NoError(t, err)

	for _, v := range geom.Mesh.Vertices {
		require.Less(t, v.Len(), float32(10000))
	}
	assert.Equal(t, geom.Frame.LocalToWorld, geom.LocalToWorld())
}

func TestValidate(t *testing.T) {
	raster := newTestRaster(6, 4, &data.GeoTransform{10, 0.01, 0, 46, 0, -0.01})
	geom, err := newTestBuilder().Build(raster, false)
	require.NoError(t, err)
	require.NoError(t, geom.Mesh.Validate())

	geom.Mesh.Indices16[7] = 24
	assert.Error(t, geom.Mesh.Validate())

	geom.Mesh.Indices16 = geom.Mesh.Indices16[:6]
	assert.Error(t, geom.Mesh.Validate())

	geom.Mesh.Normals = geom.Mesh.Normals[1:]
	assert.Error(t, geom.Mesh.Validate())
}
