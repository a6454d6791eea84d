package io

import (
	"github.com/ecopia-map/terrain_tiler/internal/catalog"
	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
)

// Contains the minimal data needed to produce a single tile artifact and its LOD node
type WorkUnit struct {
	TilePath string
	Opts     *tiler.TilerOptions
	BasePath string // folder receiving the artifact, next to the root database
}

// Outcome of one WorkUnit. Err is set when the tile failed, Node otherwise. Entry is only filled
// when the run writes an index or a catalog.
type Result struct {
	TilePath string
	Node     *lod.Node
	Entry    *catalog.Entry
	Err      error
}
