package pkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecopia-map/terrain_tiler/internal/catalog"
	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/mesh"
	"github.com/ecopia-map/terrain_tiler/internal/serializer"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/terrain_tiler/tools"
	"github.com/golang/glog"
)

// TilerVerify checks a database written by index or merge: every artifact is decoded again and
// its mesh validated. The background database is verified too when present.
type TilerVerify struct {
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewTilerVerify(algorithmManager algorithm_manager.AlgorithmManager) tiler.ITiler {
	return &TilerVerify{
		algorithmManager: algorithmManager,
	}
}

// Report summarises the verification of one database folder
type Report struct {
	Database  string
	Nodes     int
	Artifacts int
	Catalog   bool
	Index     bool
	Problems  []error
}

func (r *Report) Err() error {
	return errors.Join(r.Problems...)
}

func (r *Report) problem(format string, args ...any) {
	err := fmt.Errorf(format, args...)
	glog.Warningln(err)
	r.Problems = append(r.Problems, err)
}

func (tilerVerify *TilerVerify) RunTiler(ctx context.Context, opts *tiler.TilerOptions) error {
	dirs := []string{opts.Output}
	if _, err := FindDatabase(BackgroundFolder(opts.Output)); err == nil {
		dirs = append(dirs, BackgroundFolder(opts.Output))
	}

	var errs []error
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		report, err := Verify(dir, tilerVerify.algorithmManager.GetSerializer())
		if err != nil {
			return err
		}
		if err := report.Err(); err != nil {
			errs = append(errs, err)
			continue
		}
		tools.LogOutput(fmt.Sprintf("> %s: %d nodes, %d artifacts verified", report.Database, report.Nodes, report.Artifacts))
	}
	return errors.Join(errs...)
}

// FindDatabase returns the root database of dir, binary first
func FindDatabase(dir string) (string, error) {
	for _, format := range []serializer.Format{serializer.FormatBinary, serializer.FormatText} {
		path := filepath.Join(dir, tiler.DatabaseBaseName+format.Extension())
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no database found in %s", dir)
}

// Verify decodes the root database of dir and every artifact it references. A database that
// cannot be found or decoded is returned as an error, every other inconsistency is collected in
// the report.
func Verify(dir string, fileSerializer serializer.Serializer) (*Report, error) {
	databasePath, err := FindDatabase(dir)
	if err != nil {
		return nil, err
	}

	obj, err := fileSerializer.Read(databasePath)
	if err != nil {
		return nil, err
	}
	database, ok := obj.(*lod.Database)
	if !ok {
		return nil, &tiler.SerializationError{
			Path: databasePath,
			Err:  fmt.Errorf("expected a database, found %T", obj),
		}
	}

	report := &Report{Database: databasePath, Nodes: database.Len()}
	if database.RadiusEquator <= 0 || database.RadiusPolar <= 0 {
		report.problem("%s: invalid ellipsoid radii %v/%v", databasePath, database.RadiusEquator, database.RadiusPolar)
	}

	seen := make(map[string]bool, database.Len())
	for _, node := range database.Nodes {
		if seen[node.Filename] {
			report.problem("%s: duplicate node %s", databasePath, node.Filename)
			continue
		}
		seen[node.Filename] = true
		verifyNode(report, dir, node, fileSerializer)
	}

	verifyCatalog(report, dir, seen)
	verifyIndex(report, dir, database.Len())

	return report, nil
}

func verifyNode(report *Report, dir string, node *lod.Node, fileSerializer serializer.Serializer) {
	near, far := node.Children[lod.NearChild], node.Children[lod.FarChild]
	if node.Filename == "" || near.Filename != node.Filename {
		report.problem("node %q: near child references %q", node.Filename, near.Filename)
		return
	}
	if near.MinRange != 0 || near.MaxRange != node.Threshold || !far.IsPlaceholder() || far.MinRange != node.Threshold {
		report.problem("node %s: inconsistent ranges near [%v, %v) far [%v, %v)", node.Filename, near.MinRange, near.MaxRange, far.MinRange, far.MaxRange)
	}

	artifactPath := filepath.Join(dir, node.Filename)
	obj, err := fileSerializer.Read(artifactPath)
	if err != nil {
		report.problem("node %s: %w", node.Filename, err)
		return
	}

	var m *mesh.Mesh
	switch artifact := obj.(type) {
	case *tile.Record:
		m = artifact.Mesh
		if artifact.Bound != node.Bound {
			report.problem("node %s: bound differs from the artifact bound", node.Filename)
		}
	case *tile.TransformNode:
		m = artifact.Mesh
	default:
		report.problem("node %s: unexpected artifact %T", node.Filename, obj)
		return
	}

	if m == nil {
		report.problem("node %s: artifact has no mesh", node.Filename)
		return
	}
	if err := m.Validate(); err != nil {
		report.problem("node %s: %w", node.Filename, err)
		return
	}
	report.Artifacts++
}

func verifyCatalog(report *Report, dir string, nodes map[string]bool) {
	path := filepath.Join(dir, catalog.FileName)
	if _, err := os.Stat(path); err != nil {
		return
	}
	report.Catalog = true

	c, err := catalog.Open(path)
	if err != nil {
		report.problem("%w", err)
		return
	}
	defer c.Close()

	entries, err := c.Tiles()
	if err != nil {
		report.problem("%s: %w", path, err)
		return
	}
	if len(entries) != len(nodes) {
		report.problem("%s: %d entries for %d nodes", path, len(entries), len(nodes))
	}
	for _, entry := range entries {
		if !nodes[entry.File] {
			report.problem("%s: entry %s is not in the database", path, entry.File)
			continue
		}
		checksum, err := catalog.Checksum(filepath.Join(dir, entry.File))
		if err != nil {
			report.problem("%s: %w", path, err)
			continue
		}
		if checksum != entry.Sha256 {
			report.problem("%s: checksum mismatch for %s", path, entry.File)
		}
	}
}

func verifyIndex(report *Report, dir string, numNodes int) {
	path := filepath.Join(dir, catalog.IndexFileName)
	if _, err := os.Stat(path); err != nil {
		return
	}
	report.Index = true

	featureCollection, err := catalog.ReadIndex(path)
	if err != nil {
		report.problem("%w", err)
		return
	}
	if len(featureCollection.Features) != numNodes {
		report.problem("%s: %d features for %d nodes", path, len(featureCollection.Features), numNodes)
	}
}
