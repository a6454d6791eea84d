package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// Entry describes one tile artifact written by a run
type Entry struct {
	Name      string                  `json:"name"`
	Row       int                     `json:"row"`
	Col       int                     `json:"col"`
	File      string                  `json:"file"` // relative to the database folder
	Sha256    string                  `json:"sha256"`
	Bound     geometry.BoundingSphere `json:"bound"`
	Footprint orb.Ring                `json:"footprint"`
}

// NewEntry describes the artifact of record, checksumming the file at artifactPath
func NewEntry(record *tile.Record, file string, artifactPath string, model *ellipsoid.Model) (Entry, error) {
	checksum, err := Checksum(artifactPath)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:      record.Name,
		Row:       record.Row,
		Col:       record.Col,
		File:      file,
		Sha256:    checksum,
		Bound:     record.Bound,
		Footprint: Footprint(record, model),
	}, nil
}

// Footprint is the closed lon/lat ring through the four corner vertices of the tile mesh
func Footprint(record *tile.Record, model *ellipsoid.Model) orb.Ring {
	m := record.Mesh
	corners := []int{0, m.Cols - 1, m.Rows*m.Cols - 1, (m.Rows - 1) * m.Cols}

	ring := make(orb.Ring, 0, len(corners)+1)
	for _, idx := range corners {
		v := m.Vertices[idx]
		world := record.Transform.Mul4x1(mgl64.Vec4{float64(v.X()), float64(v.Y()), float64(v.Z()), 1}).Vec3()
		lla := model.FromECEF(world)
		ring = append(ring, orb.Point{lla.X, lla.Y})
	}
	return append(ring, ring[0])
}

// Checksum is the hex encoded sha256 of the file content
func Checksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
