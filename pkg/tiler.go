package pkg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ecopia-map/terrain_tiler/internal/catalog"
	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/io"
	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/mesh"
	"github.com/ecopia-map/terrain_tiler/internal/raster"
	"github.com/ecopia-map/terrain_tiler/internal/serializer"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/terrain_tiler/tools"
	"github.com/golang/glog"
)

var ErrNoTiles = errors.New("no raster tiles found")

// Tiler runs the tile pipeline of one command. A Tiler runs at most once at a time.
type Tiler struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager

	mu    sync.Mutex
	state tiler.State
}

func newTiler(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) *Tiler {
	return &Tiler{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
		state:            tiler.StateIdle,
	}
}

func (t *Tiler) State() tiler.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tiler) setState(state tiler.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	glog.V(1).Infof("tiler state %s -> %s", t.state, state)
	t.state = state
}

// Processes every tile of opts.Input into outputDir and writes the root database there once all
// tiles succeeded
func (t *Tiler) run(ctx context.Context, opts *tiler.TilerOptions, outputDir string) (err error) {
	defer func() {
		if err != nil {
			t.setState(tiler.StateFailed)
		}
	}()
	defer t.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	t.setState(tiler.StateDiscovering)
	reader := t.algorithmManager.GetRasterReader()

	tools.LogOutput("Preparing list of tiles to process...")
	tiles, err := t.fileFinder.GetTilesToProcess(opts, reader)
	if err != nil {
		return fmt.Errorf("cannot list tiles in %s: %w", opts.Input, err)
	}
	if len(tiles) == 0 {
		return fmt.Errorf("%w in %s", ErrNoTiles, opts.Input)
	}
	glog.Infof("found %d tiles in %s", len(tiles), opts.Input)

	// the first tile is read up front so that a broken input fails before any work is launched
	if _, err := reader.Read(tiles[0]); err != nil {
		return err
	}

	if err := tools.CreateDirectoryIfDoesNotExist(outputDir); err != nil {
		return &tiler.SerializationError{Path: outputDir, Err: err}
	}

	var baseImage *data.Image
	if opts.TexturePath != "" && !opts.GenerateTexture {
		baseImage, err = raster.LoadImage(opts.TexturePath, opts.SearchPaths)
		if err != nil {
			return err
		}
	}

	model := t.algorithmManager.GetEllipsoid()
	builder := mesh.NewBuilder(
		model,
		t.algorithmManager.GetCoordinateConverterAlgorithm(),
		t.algorithmManager.GetElevationCorrectionAlgorithm(),
	)
	packager := tile.NewPackager(tile.NewAppearanceParams(opts, baseImage))
	fileSerializer := t.algorithmManager.GetSerializer()

	t.setState(tiler.StateProcessing)
	tools.LogOutput(fmt.Sprintf("> processing %d tiles...", len(tiles)))

	nodes, entries, err := t.process(ctx, opts, outputDir, tiles, builder, packager, fileSerializer)
	if err != nil {
		return err
	}

	t.setState(tiler.StateFinalizing)
	database := lod.NewDatabase(model)
	for _, node := range nodes {
		database.Append(node)
	}

	databaseName := tiler.DatabaseBaseName + fileSerializer.Extension()

	// the database goes last: a run that fails here leaves no database behind
	if opts.WriteIndex {
		indexPath := filepath.Join(outputDir, catalog.IndexFileName)
		if err := catalog.WriteIndex(indexPath, entries); err != nil {
			return &tiler.SerializationError{Path: indexPath, Err: err}
		}
		glog.Infof("wrote index %s", indexPath)
	}

	if opts.WriteCatalog {
		if err := recordRun(filepath.Join(outputDir, catalog.FileName), opts, databaseName, entries); err != nil {
			return err
		}
	}

	databasePath := filepath.Join(outputDir, databaseName)
	if err := fileSerializer.Write(database, databasePath); err != nil {
		return err
	}
	tools.LogOutput("> wrote", databasePath)

	t.setState(tiler.StateDone)
	return nil
}

// Runs the worker pool over tiles and collects the LOD nodes and catalog entries. Returns the first
// failure once every worker has returned.
func (t *Tiler) process(
	ctx context.Context,
	opts *tiler.TilerOptions,
	outputDir string,
	tiles []string,
	builder *mesh.Builder,
	packager *tile.Packager,
	fileSerializer serializer.Serializer,
) ([]*lod.Node, []catalog.Entry, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	numConsumers := opts.Workers
	if numConsumers <= 0 {
		numConsumers = runtime.NumCPU()
	}

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)
	resultChannel := make(chan *io.Result, numConsumers)

	var waitGroup sync.WaitGroup

	waitGroup.Add(1)
	producer := io.NewStandardProducer(outputDir, opts)
	go producer.Produce(runCtx, workChannel, &waitGroup, tiles)

	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer(
			t.algorithmManager.GetRasterReader(),
			builder,
			packager,
			fileSerializer,
			t.algorithmManager.GetEllipsoid(),
		)
		go consumer.Consume(runCtx, workChannel, resultChannel, &waitGroup)
	}

	go func() {
		waitGroup.Wait()
		close(resultChannel)
	}()

	nodes := make([]*lod.Node, 0, len(tiles))
	entries := make([]catalog.Entry, 0, len(tiles))
	completed := 0
	var firstErr error

	for result := range resultChannel {
		completed++
		if opts.Progress != nil {
			opts.Progress(completed, producer.Submitted())
		}

		if result.Err != nil {
			if firstErr == nil {
				firstErr = result.Err
				glog.Errorf("tile %s failed: %v", result.TilePath, result.Err)
				cancel()
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		nodes = append(nodes, result.Node)
		if result.Entry != nil {
			entries = append(entries, *result.Entry)
		}
	}

	if firstErr != nil {
		return nil, nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return nodes, entries, nil
}

func recordRun(path string, opts *tiler.TilerOptions, databaseName string, entries []catalog.Entry) error {
	c, err := catalog.Open(path)
	if err != nil {
		return &tiler.SerializationError{Path: path, Err: err}
	}
	defer c.Close()

	format := serializer.FormatFor(opts.Text)
	run := catalog.NewRun(opts.Command, format.String(), databaseName, len(entries))
	if err := c.Record(run, entries); err != nil {
		return &tiler.SerializationError{Path: path, Err: err}
	}
	glog.Infof("recorded run %s in %s", run.ID, path)
	return nil
}
