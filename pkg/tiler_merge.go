package pkg

import (
	"context"
	"path/filepath"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/terrain_tiler/tools"
	"github.com/golang/glog"
)

// TilerMerge builds the coarse background database: every tile is meshed on the reduced flat grid
// and written below <output>/background
type TilerMerge struct {
	*Tiler
}

func NewTilerMerge(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) tiler.ITiler {
	return &TilerMerge{
		Tiler: newTiler(fileFinder, algorithmManager),
	}
}

func BackgroundFolder(output string) string {
	return filepath.Join(output, tiler.BackgroundFolder)
}

func (tilerMerge *TilerMerge) RunTiler(ctx context.Context, opts *tiler.TilerOptions) error {
	mergeOpts := opts.Copy()
	mergeOpts.Flat = true

	outputDir := BackgroundFolder(opts.Output)
	glog.Infof("merge %s into %s", opts.Input, outputDir)
	if err := tilerMerge.run(ctx, mergeOpts, outputDir); err != nil {
		return err
	}
	tools.LogOutput("> done merging", opts.Input)
	return nil
}
