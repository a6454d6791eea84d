package tile

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
)

// two underscore prefixed integers right before the extension
var tileNamePattern = regexp.MustCompile(`_(\d+)_(\d+)\.[^.]+$`)

// Identity of a tile in the source grid, parsed from its file name
type Identity struct {
	Name string // base name without extension
	Row  int
	Col  int
}

// ParseIdentity extracts row and col from a ..._<row>_<col>.<ext> file name
func ParseIdentity(path string) (Identity, error) {
	fileName := filepath.Base(path)
	match := tileNamePattern.FindStringSubmatch(fileName)
	if match == nil {
		return Identity{}, &tiler.FilenameConventionError{Name: fileName}
	}

	row, err := strconv.Atoi(match[1])
	if err != nil {
		return Identity{}, &tiler.FilenameConventionError{Name: fileName}
	}
	col, err := strconv.Atoi(match[2])
	if err != nil {
		return Identity{}, &tiler.FilenameConventionError{Name: fileName}
	}

	return Identity{
		Name: strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		Row:  row,
		Col:  col,
	}, nil
}

func MatchesConvention(path string) bool {
	_, err := ParseIdentity(path)
	return err == nil
}

// OutputName is the artifact file name of the tile: its base name with the serializer extension
func OutputName(tilePath string, extension string) string {
	fileName := filepath.Base(tilePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName)) + extension
}

func OutputPath(outputDir string, tilePath string, extension string) string {
	return filepath.Join(outputDir, OutputName(tilePath, extension))
}
