package tile

import (
	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/ecopia-map/terrain_tiler/internal/mesh"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl64"
)

// Record is the tiled mode artifact: one tile with its identity and source metadata
type Record struct {
	Name         string                  `json:"name"`
	Row          int                     `json:"row"`
	Col          int                     `json:"col"`
	Transform    mgl64.Mat4              `json:"transform"`
	Bound        geometry.BoundingSphere `json:"bound"`
	GeoTransform data.GeoTransform       `json:"geoTransform"`
	Appearance   *Appearance             `json:"appearance"`
	Mesh         *mesh.Mesh              `json:"mesh"`
}

// TransformNode is the classic mode artifact: the mesh placed on the globe with its appearance
type TransformNode struct {
	Transform  mgl64.Mat4  `json:"transform"`
	Appearance *Appearance `json:"appearance"`
	Mesh       *mesh.Mesh  `json:"mesh"`
}

func (r *Record) TransformNode() *TransformNode {
	return &TransformNode{
		Transform:  r.Transform,
		Appearance: r.Appearance,
		Mesh:       r.Mesh,
	}
}

// Packager combines tile geometry and the shared appearance parameters into records
type Packager struct {
	params *AppearanceParams
}

func NewPackager(params *AppearanceParams) *Packager {
	return &Packager{params: params}
}

func (p *Packager) Pack(tilePath string, raster *data.GeoRaster, geom *mesh.TileGeometry) (*Record, error) {
	identity, err := ParseIdentity(tilePath)
	if err != nil {
		return nil, err
	}
	if !raster.HasGeoTransform() {
		return nil, &tiler.RasterMetadataError{Path: raster.Path}
	}

	return &Record{
		Name:         identity.Name,
		Row:          identity.Row,
		Col:          identity.Col,
		Transform:    geom.LocalToWorld(),
		Bound:        geom.Bound,
		GeoTransform: *raster.GeoTransform,
		Appearance:   p.params.build(raster, raster.GeoTransform.Aspect()),
		Mesh:         geom.Mesh,
	}, nil
}
