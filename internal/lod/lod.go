package lod

import (
	"math"

	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	FarChild  = 0
	NearChild = 1
)

// Child is one entry of a paged LOD switch. It is active while the viewer distance lies in
// [MinRange, MaxRange). The far child references no file.
type Child struct {
	Filename string  `json:"filename"`
	MinRange float64 `json:"minRange"`
	MaxRange float64 `json:"maxRange"`
}

func (c Child) IsPlaceholder() bool {
	return c.Filename == ""
}

// Node is a paged LOD entry loading a tile artifact once the viewer comes within Threshold of
// Bound. Nodes are stateless: the active child is recomputed from the distance on every query.
type Node struct {
	Filename  string                  `json:"filename"`
	Threshold float64                 `json:"threshold"`
	Bound     geometry.BoundingSphere `json:"bound"`
	Children  [2]Child                `json:"children"`
}

// Wrap builds the single level LOD node of a tile artifact
func Wrap(filename string, bound geometry.BoundingSphere, threshold float64) *Node {
	return &Node{
		Filename:  filename,
		Threshold: threshold,
		Bound:     bound,
		Children: [2]Child{
			FarChild:  {MinRange: threshold, MaxRange: math.MaxFloat64},
			NearChild: {Filename: filename, MinRange: 0, MaxRange: threshold},
		},
	}
}

// Select returns the index of the child active at the given viewer distance
func (n *Node) Select(distance float64) int {
	if distance < n.Threshold {
		return NearChild
	}
	return FarChild
}

// SelectFrom measures the distance from eye to the node bound and selects the active child
func (n *Node) SelectFrom(eye mgl64.Vec3) int {
	return n.Select(n.Bound.Distance(eye))
}

// Database is the root of a terrain database: the ellipsoid model and one node per tile.
// Node order follows tile completion and carries no meaning.
type Database struct {
	RadiusEquator float64 `json:"radiusEquator"`
	RadiusPolar   float64 `json:"radiusPolar"`
	Nodes         []*Node `json:"nodes"`
}

func NewDatabase(model *ellipsoid.Model) *Database {
	return &Database{
		RadiusEquator: model.RadiusEquator(),
		RadiusPolar:   model.RadiusPolar(),
		Nodes:         make([]*Node, 0),
	}
}

// Append is not safe for concurrent use, the database has a single writer
func (d *Database) Append(node *Node) {
	d.Nodes = append(d.Nodes, node)
}

func (d *Database) Len() int {
	return len(d.Nodes)
}

func (d *Database) Ellipsoid() *ellipsoid.Model {
	return ellipsoid.NewModel(d.RadiusEquator, d.RadiusPolar)
}
