package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/golang/glog"
)

const (
	EnvWorkDir     = "TERRAIN_TILER_WORKDIR"
	EnvSearchPaths = "TERRAIN_TILER_PATH"
)

// ResolveWorkPath joins a relative path to the work folder given by the work folder environment
// variable. Absolute paths, empty paths and paths without a work folder are returned as is.
func ResolveWorkPath(path string) string {
	workDir := os.Getenv(EnvWorkDir)
	if path == "" || workDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

// ResolveWorkPaths applies ResolveWorkPath to the input, output and texture paths of opts. A
// texture missing from the work folder keeps its relative path for the search path lookup.
func ResolveWorkPaths(opts *tiler.TilerOptions) {
	opts.Input = ResolveWorkPath(opts.Input)
	opts.Output = ResolveWorkPath(opts.Output)
	if texture := ResolveWorkPath(opts.TexturePath); texture != opts.TexturePath {
		if _, err := os.Stat(texture); err == nil {
			opts.TexturePath = texture
		}
	}
	glog.V(1).Infof("resolved paths input=%s output=%s texture=%s", opts.Input, opts.Output, opts.TexturePath)
}

// GetSearchPaths splits the search path environment variable on the OS list separator,
// dropping empty entries
func GetSearchPaths() []string {
	paths := make([]string, 0)
	for _, path := range filepath.SplitList(os.Getenv(EnvSearchPaths)) {
		if strings.TrimSpace(path) != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}
