package pkg

import (
	"context"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/terrain_tiler/tools"
	"github.com/golang/glog"
)

// TilerIndex builds the full resolution database of the input tiles into the output folder
type TilerIndex struct {
	*Tiler
}

func NewTiler(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) tiler.ITiler {
	return &TilerIndex{
		Tiler: newTiler(fileFinder, algorithmManager),
	}
}

// Starts the tiling process
func (tilerIndex *TilerIndex) RunTiler(ctx context.Context, opts *tiler.TilerOptions) error {
	glog.Infof("index %s into %s", opts.Input, opts.Output)
	if err := tilerIndex.run(ctx, opts, opts.Output); err != nil {
		return err
	}
	tools.LogOutput("> done indexing", opts.Input)
	return nil
}
