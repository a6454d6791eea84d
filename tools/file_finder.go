package tools

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ecopia-map/terrain_tiler/internal/raster"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/golang/glog"
)

type FileFinder interface {
	GetTilesToProcess(opts *tiler.TilerOptions, reader raster.Reader) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// Lists the rasters of the input folder readable by reader and named after the
// _<row>_<col>.<ext> convention, eventually excluding nested folders if the Recursive flag is
// disabled. Other files are skipped. The result is sorted.
func (f *StandardFileFinder) GetTilesToProcess(opts *tiler.TilerOptions, reader raster.Reader) ([]string, error) {
	var tiles = make([]string, 0)

	baseInfo, err := os.Stat(opts.Input)
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(
		opts.Input,
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if !opts.Recursive && path != opts.Input {
					info, infoErr := entry.Info()
					if infoErr != nil || !os.SameFile(info, baseInfo) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !reader.Supports(path) {
				return nil
			}
			if !tile.MatchesConvention(path) {
				glog.V(1).Infof("skipping %s: name does not end with _<row>_<col>", path)
				return nil
			}
			tiles = append(tiles, path)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Strings(tiles)
	return tiles, nil
}
