package serializer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/ellipsoid"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/mesh"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(width mesh.IndexWidth) *tile.Record {
	m := &mesh.Mesh{
		Rows:       2,
		Cols:       2,
		Vertices:   []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0.5}, {-1, 1, 0.25}, {1, 1, -3.75}},
		TexCoords:  []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		Normals:    []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Color:      mgl32.Vec4{1, 1, 1, 1},
		IndexWidth: width,
	}
	if width == mesh.Index32 {
		m.Indices32 = []uint32{0, 1, 2, 2, 1, 3}
	} else {
		m.Indices16 = []uint16{0, 1, 2, 2, 1, 3}
	}

	return &tile.Record{
		Name:         "dem_4_9",
		Row:          4,
		Col:          9,
		Transform:    mgl64.Translate3D(4517590.878, 832293.4, 4487348.4),
		Bound:        geometry.NewBoundingSphere(mgl64.Vec3{4517590.878, 832293.4, 4487348.4}, 1234.5678),
		GeoTransform: data.GeoTransform{10.5, 0.001, 0, 45.25, 0, -0.001},
		Appearance: &tile.Appearance{
			Kind: tiler.AppearancePhong,
			Material: &tile.Material{
				Ambient:   mgl32.Vec4{1, 1, 1, 1},
				Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
				Specular:  mgl32.Vec4{0, 0, 0, 1},
				Emissive:  mgl32.Vec4{0, 0, 0, 1},
				Shininess: 12.5,
			},
			DisplacementMap: data.NewR32FFromSamples(2, 2, []float32{100, 101.5, 99, 98.25}),
			Image:           data.NewUniformRGBA32F(4, 4, mgl32.Vec4{0.5, 0.5, 0.5, 1}),
			AOMap:           data.NewUniformR32F(2, 2, 1),
		},
		Mesh: m,
	}
}

func newTestDatabase() *lod.Database {
	db := lod.NewDatabase(ellipsoid.NewWGS84())
	db.Append(lod.Wrap("dem_0_0.tdbb", geometry.NewBoundingSphere(mgl64.Vec3{1, 2, 3}, 4), 10000))
	db.Append(lod.Wrap("dem_0_1.tdbb", geometry.NewBoundingSphere(mgl64.Vec3{5, 6, 7}, 8), 10000))
	return db
}

func TestRoundTrip(t *testing.T) {
	record := newTestRecord(mesh.Index16)
	basic := newTestRecord(mesh.Index32)
	basic.Appearance = &tile.Appearance{
		Kind:            tiler.AppearanceBasic,
		DisplacementMap: basic.Appearance.DisplacementMap,
		Image:           data.NewImage(2, 2, data.FormatRGBA8),
	}

	objects := []any{
		record,
		basic,
		record.TransformNode(),
		lod.Wrap("dem_4_9.tdbt", record.Bound, 5000),
		newTestDatabase(),
		lod.NewDatabase(ellipsoid.NewWGS84()),
	}

	for _, format := range []Format{FormatBinary, FormatText} {
		for _, obj := range objects {
			content, err := Encode(obj, format)
			require.NoError(t, err)

			decoded, err := Decode(content)
			require.NoError(t, err, "%s %T", format, obj)
			assert.Equal(t, obj, decoded, "%s %T", format, obj)
		}
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	for _, format := range []Format{FormatBinary, FormatText} {
		first, err := Encode(newTestRecord(mesh.Index16), format)
		require.NoError(t, err)
		second, err := Encode(newTestRecord(mesh.Index16), format)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestKindOf(t *testing.T) {
	kind, err := KindOf(newTestRecord(mesh.Index16))
	require.NoError(t, err)
	assert.Equal(t, KindTile, kind)

	kind, err = KindOf(newTestDatabase())
	require.NoError(t, err)
	assert.Equal(t, KindDatabase, kind)

	_, err = KindOf("not a record")
	assert.Error(t, err)
	_, err = Encode(42, FormatBinary)
	assert.Error(t, err)
}

func TestDecodeRejectsCorruptContent(t *testing.T) {
	content, err := Encode(newTestRecord(mesh.Index16), FormatBinary)
	require.NoError(t, err)

	_, err = Decode(content[:len(content)-3])
	assert.Error(t, err)

	_, err = Decode(append(append([]byte(nil), content...), 0))
	assert.Error(t, err)

	unknownKind := append([]byte(nil), content...)
	unknownKind[6] = 99
	_, err = Decode(unknownKind)
	assert.Error(t, err)

	_, err = Decode([]byte(`{"format":"terrain_tiler","version":1,"kind":"Route","payload":{}}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`{"format":"other","version":1,"kind":"Tile","payload":{}}`))
	assert.Error(t, err)
}

func TestFileSerializer(t *testing.T) {
	dir := t.TempDir()

	for _, text := range []bool{false, true} {
		s := NewFileSerializer(FormatFor(text))
		path := filepath.Join(dir, "database"+s.Extension())

		require.NoError(t, s.Write(newTestDatabase(), path))
		decoded, err := s.Read(path)
		require.NoError(t, err)
		assert.Equal(t, newTestDatabase(), decoded)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")

	assert.Equal(t, ".tdbt", NewFileSerializer(FormatText).Extension())
	assert.Equal(t, ".tdbb", NewFileSerializer(FormatBinary).Extension())
}

func TestFileSerializerErrors(t *testing.T) {
	s := NewFileSerializer(FormatBinary)

	err := s.Write(newTestDatabase(), filepath.Join(t.TempDir(), "missing", "database.tdbb"))
	var serializationErr *tiler.SerializationError
	require.True(t, errors.As(err, &serializationErr))
	assert.Contains(t, serializationErr.Path, "missing")

	_, err = s.Read(filepath.Join(t.TempDir(), "nothing.tdbb"))
	require.True(t, errors.As(err, &serializationErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
