package io

import (
	"context"
	"sync"

	"github.com/ecopia-map/terrain_tiler/internal/catalog"
	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/mesh"
	"github.com/ecopia-map/terrain_tiler/internal/raster"
	"github.com/ecopia-map/terrain_tiler/internal/serializer"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/tools"
	"github.com/golang/glog"
)

// StandardConsumer turns WorkUnits into tile artifacts and LOD nodes. Its collaborators are shared
// with the other consumers and only read.
type StandardConsumer struct {
	reader     raster.Reader
	builder    *mesh.Builder
	packager   *tile.Packager
	serializer serializer.Serializer
	ellipsoid  *ellipsoid.Model
}

func NewStandardConsumer(
	reader raster.Reader,
	builder *mesh.Builder,
	packager *tile.Packager,
	serializer serializer.Serializer,
	ellipsoid *ellipsoid.Model,
) *StandardConsumer {
	return &StandardConsumer{
		reader:     reader,
		builder:    builder,
		packager:   packager,
		serializer: serializer,
		ellipsoid:  ellipsoid,
	}
}

// Continually consumes WorkUnits submitted to a work channel, publishing one Result per unit.
// Continues working until the work channel is closed or ctx is cancelled. Quits after the first
// failed unit.
func (c *StandardConsumer) Consume(ctx context.Context, workchan chan *WorkUnit, results chan<- *Result, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case work, ok := <-workchan:
			if !ok {
				// channel was closed by producer
				return
			}

			result := c.doWork(work)
			results <- result
			if result.Err != nil {
				return
			}
		}
	}
}

// Reads, meshes, packs and writes one tile, then wraps the artifact into its LOD node
func (c *StandardConsumer) doWork(workUnit *WorkUnit) *Result {
	result := &Result{TilePath: workUnit.TilePath}
	opts := workUnit.Opts

	geoRaster, err := c.reader.Read(workUnit.TilePath)
	if err != nil {
		result.Err = err
		return result
	}

	geom, err := c.builder.Build(geoRaster, opts.Flat)
	if err != nil {
		result.Err = err
		return result
	}

	record, err := c.packager.Pack(workUnit.TilePath, geoRaster, geom)
	if err != nil {
		result.Err = err
		return result
	}

	if err := tools.CreateDirectoryIfDoesNotExist(workUnit.BasePath); err != nil {
		result.Err = &tiler.SerializationError{Path: workUnit.BasePath, Err: err}
		return result
	}

	fileName := tile.OutputName(workUnit.TilePath, c.serializer.Extension())
	artifactPath := tile.OutputPath(workUnit.BasePath, workUnit.TilePath, c.serializer.Extension())

	var artifact any = record
	if opts.Mode == tiler.OutputClassic {
		artifact = record.TransformNode()
	}
	if err := c.serializer.Write(artifact, artifactPath); err != nil {
		result.Err = err
		return result
	}
	glog.V(1).Infof("wrote %s (%dx%d, %s indices)", artifactPath, record.Mesh.Cols, record.Mesh.Rows, record.Mesh.IndexWidth)

	result.Node = lod.Wrap(fileName, record.Bound, opts.Transition)

	if opts.WriteIndex || opts.WriteCatalog {
		entry, err := catalog.NewEntry(record, fileName, artifactPath, c.ellipsoid)
		if err != nil {
			result.Err = &tiler.SerializationError{Path: artifactPath, Err: err}
			return result
		}
		result.Entry = &entry
	}

	return result
}
