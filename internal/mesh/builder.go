package mesh

import (
	"fmt"

	"github.com/ecopia-map/terrain_tiler/internal/converters"
	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Grid size of the reduced meshes used for merged and background tiles
const FlatGridSize = 32

// Output of the mesh build step for one tile
type TileGeometry struct {
	Mesh  *Mesh
	Bound geometry.BoundingSphere
	Frame ellipsoid.TangentFrame
}

// LocalToWorld is the transform placing the mesh on the globe
func (g *TileGeometry) LocalToWorld() mgl64.Mat4 {
	return g.Frame.LocalToWorld
}

// Builder turns georeferenced rasters into tangent plane meshes. It keeps no per tile state and
// can be shared by concurrent workers as long as its collaborators are.
type Builder struct {
	ellipsoid           *ellipsoid.Model
	coordinateConverter converters.CoordinateConverter
	elevationCorrector  converters.ElevationCorrector
}

func NewBuilder(
	ellipsoidModel *ellipsoid.Model,
	coordinateConverter converters.CoordinateConverter,
	elevationCorrector converters.ElevationCorrector,
) *Builder {
	return &Builder{
		ellipsoid:           ellipsoidModel,
		coordinateConverter: coordinateConverter,
		elevationCorrector:  elevationCorrector,
	}
}

// Build generates the tile mesh. In flat mode a fixed 32x32 grid spanning the raster is used
// whatever the raster resolution.
func (b *Builder) Build(raster *data.GeoRaster, flat bool) (*TileGeometry, error) {
	if !raster.HasGeoTransform() {
		return nil, &tiler.RasterMetadataError{Path: raster.Path}
	}

	numRows, numCols := raster.Height, raster.Width
	transform := *raster.GeoTransform
	if flat {
		numRows, numCols = FlatGridSize, FlatGridSize
		transform = transform.Scaled(
			float64(raster.Width)/FlatGridSize,
			float64(raster.Height)/FlatGridSize,
		)
	}

	if numRows < 2 || numCols < 2 {
		return nil, &tiler.RasterReadError{
			Path: raster.Path,
			Err:  fmt.Errorf("raster grid %dx%d is too small to triangulate", raster.Width, raster.Height),
		}
	}

	centroid, err := b.geodetic(transform, float64(numCols)*0.5, float64(numRows)*0.5, raster.Srid)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: raster.Path, Err: err}
	}
	frame := b.ellipsoid.LocalFrame(centroid)

	numVertices := numRows * numCols
	m := &Mesh{
		Rows:      numRows,
		Cols:      numCols,
		Vertices:  make([]mgl32.Vec3, 0, numVertices),
		TexCoords: make([]mgl32.Vec2, 0, numVertices),
		Normals:   make([]mgl32.Vec3, numVertices),
		Color:     mgl32.Vec4{1, 1, 1, 1},
	}

	texcoordDx := 1.0 / (float32(numCols) - 1.0)
	texcoordDy := 1.0 / (float32(numRows) - 1.0)

	for r := 0; r < numRows; r++ {
		for c := 0; c < numCols; c++ {
			lla, err := b.geodetic(transform, float64(c), float64(r), raster.Srid)
			if err != nil {
				return nil, &tiler.RasterReadError{Path: raster.Path, Err: err}
			}
			local := frame.ToLocal(b.ellipsoid.ToECEF(lla))

			m.Vertices = append(m.Vertices, mgl32.Vec3{float32(local.X()), float32(local.Y()), float32(local.Z())})
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{texcoordDx * float32(c), texcoordDy * float32(r)})
		}
	}

	// flat normal approximation, the displacement map carries the relief
	for i := range m.Normals {
		m.Normals[i] = mgl32.Vec3{0, 0, 1}
	}

	m.triangulate()

	bound, err := b.computeBound(transform, numCols, numRows, raster.Srid, centroid)
	if err != nil {
		return nil, &tiler.RasterReadError{Path: raster.Path, Err: err}
	}

	return &TileGeometry{
		Mesh:  m,
		Bound: bound,
		Frame: frame,
	}, nil
}

// The sphere is centered on the tile centroid with the origin corner on its surface. The other
// grid corners only enlarge it when the ellipsoid curvature pushes them further out.
func (b *Builder) computeBound(transform data.GeoTransform, numCols, numRows, srid int, centroid geometry.Coordinate) (geometry.BoundingSphere, error) {
	center := b.ellipsoid.ToECEF(centroid)

	origin, err := b.geodetic(transform, 0, 0, srid)
	if err != nil {
		return geometry.BoundingSphere{}, err
	}
	bound := geometry.NewBoundingSphere(center, b.ellipsoid.ToECEF(origin).Sub(center).Len())

	corners := [][2]float64{
		{float64(numCols - 1), 0},
		{0, float64(numRows - 1)},
		{float64(numCols - 1), float64(numRows - 1)},
	}
	for _, corner := range corners {
		lla, err := b.geodetic(transform, corner[0], corner[1], srid)
		if err != nil {
			return geometry.BoundingSphere{}, err
		}
		bound.ExpandBy(b.ellipsoid.ToECEF(lla))
	}

	return bound, nil
}

func (b *Builder) geodetic(transform data.GeoTransform, col, row float64, srid int) (geometry.Coordinate, error) {
	x, y := transform.Apply(col, row)
	lla, err := b.coordinateConverter.ToWGS84Geodetic(geometry.Coordinate{X: x, Y: y}, srid)
	if err != nil {
		return lla, err
	}
	lla.Z = b.elevationCorrector.CorrectElevation(lla.X, lla.Y, 0)
	return lla, nil
}
