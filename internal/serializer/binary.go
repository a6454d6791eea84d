package serializer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/mesh"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Binary artifacts start with the magic, a little endian uint16 version and the kind byte
var binaryMagic = []byte("TDBB")

const binaryVersion uint16 = 1

var binaryDecoders = map[Kind]func(*binaryDecoder) any{
	KindTransform: func(d *binaryDecoder) any { return d.transformNode() },
	KindTile:      func(d *binaryDecoder) any { return d.record() },
	KindPagedLOD:  func(d *binaryDecoder) any { return d.node() },
	KindDatabase:  func(d *binaryDecoder) any { return d.database() },
}

func isBinary(content []byte) bool {
	return bytes.HasPrefix(content, binaryMagic)
}

func encodeBinary(kind Kind, obj any) ([]byte, error) {
	e := &binaryEncoder{}
	e.buf = append(e.buf, binaryMagic...)
	e.buf = binary.LittleEndian.AppendUint16(e.buf, binaryVersion)
	e.u8(uint8(kind))

	switch typed := obj.(type) {
	case *tile.TransformNode:
		e.transformNode(typed)
	case *tile.Record:
		e.record(typed)
	case *lod.Node:
		e.node(typed)
	case *lod.Database:
		e.database(typed)
	default:
		return nil, fmt.Errorf("type %T is not a serializable record", obj)
	}
	return e.buf, e.err
}

func decodeBinary(content []byte) (any, error) {
	if !isBinary(content) {
		return nil, errors.New("missing binary magic")
	}
	d := &binaryDecoder{data: content, off: len(binaryMagic)}

	if version := d.u16(); d.err == nil && version != binaryVersion {
		return nil, fmt.Errorf("unsupported binary version %d", version)
	}
	kind := Kind(d.u8())
	if d.err != nil {
		return nil, d.err
	}

	decode, ok := binaryDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("no binary decoder for %s", kind)
	}
	value := decode(d)
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.data) {
		return nil, fmt.Errorf("%d trailing bytes after %s record", len(d.data)-d.off, kind)
	}
	return value, nil
}

type binaryEncoder struct {
	buf []byte
	err error
}

func (e *binaryEncoder) u8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *binaryEncoder) u32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *binaryEncoder) count(n int) {
	if n > math.MaxUint32 {
		e.err = fmt.Errorf("sequence of %d elements is too long", n)
		return
	}
	e.u32(uint32(n))
}

func (e *binaryEncoder) i64(v int) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(int64(v)))
}

func (e *binaryEncoder) f32(v float32) {
	e.u32(math.Float32bits(v))
}

func (e *binaryEncoder) f64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *binaryEncoder) bool(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *binaryEncoder) bytes(b []byte) {
	e.count(len(b))
	e.buf = append(e.buf, b...)
}

func (e *binaryEncoder) str(s string) {
	e.bytes([]byte(s))
}

func (e *binaryEncoder) f32s(values []float32) {
	for _, v := range values {
		e.f32(v)
	}
}

func (e *binaryEncoder) mat4(m mgl64.Mat4) {
	for _, v := range m {
		e.f64(v)
	}
}

func (e *binaryEncoder) vec4(v mgl32.Vec4) {
	e.f32s(v[:])
}

func (e *binaryEncoder) bound(b geometry.BoundingSphere) {
	e.f64(b.Center.X())
	e.f64(b.Center.Y())
	e.f64(b.Center.Z())
	e.f64(b.Radius)
}

func (e *binaryEncoder) geoTransform(g data.GeoTransform) {
	for _, v := range g {
		e.f64(v)
	}
}

func (e *binaryEncoder) image(img *data.Image) {
	e.bool(img != nil)
	if img == nil {
		return
	}
	e.u32(uint32(img.Width))
	e.u32(uint32(img.Height))
	e.u8(uint8(img.Format))
	e.bytes(img.Pix)
}

func (e *binaryEncoder) appearance(a *tile.Appearance) {
	e.bool(a != nil)
	if a == nil {
		return
	}
	e.str(string(a.Kind))
	e.bool(a.Material != nil)
	if a.Material != nil {
		e.vec4(a.Material.Ambient)
		e.vec4(a.Material.Diffuse)
		e.vec4(a.Material.Specular)
		e.vec4(a.Material.Emissive)
		e.f32(a.Material.Shininess)
	}
	e.image(a.DisplacementMap)
	e.image(a.Image)
	e.image(a.AOMap)
}

func (e *binaryEncoder) mesh(m *mesh.Mesh) {
	e.bool(m != nil)
	if m == nil {
		return
	}
	e.u32(uint32(m.Rows))
	e.u32(uint32(m.Cols))
	e.vec4(m.Color)

	e.count(len(m.Vertices))
	for _, v := range m.Vertices {
		e.f32s(v[:])
	}
	e.count(len(m.TexCoords))
	for _, v := range m.TexCoords {
		e.f32s(v[:])
	}
	e.count(len(m.Normals))
	for _, v := range m.Normals {
		e.f32s(v[:])
	}

	e.u8(uint8(m.IndexWidth))
	if m.IndexWidth == mesh.Index32 {
		e.count(len(m.Indices32))
		for _, idx := range m.Indices32 {
			e.u32(idx)
		}
	} else {
		e.count(len(m.Indices16))
		for _, idx := range m.Indices16 {
			e.buf = binary.LittleEndian.AppendUint16(e.buf, idx)
		}
	}
}

func (e *binaryEncoder) transformNode(n *tile.TransformNode) {
	e.mat4(n.Transform)
	e.appearance(n.Appearance)
	e.mesh(n.Mesh)
}

func (e *binaryEncoder) record(r *tile.Record) {
	e.str(r.Name)
	e.i64(r.Row)
	e.i64(r.Col)
	e.mat4(r.Transform)
	e.bound(r.Bound)
	e.geoTransform(r.GeoTransform)
	e.appearance(r.Appearance)
	e.mesh(r.Mesh)
}

func (e *binaryEncoder) node(n *lod.Node) {
	e.str(n.Filename)
	e.f64(n.Threshold)
	e.bound(n.Bound)
	for _, child := range n.Children {
		e.str(child.Filename)
		e.f64(child.MinRange)
		e.f64(child.MaxRange)
	}
}

func (e *binaryEncoder) database(db *lod.Database) {
	e.f64(db.RadiusEquator)
	e.f64(db.RadiusPolar)
	e.count(len(db.Nodes))
	for _, n := range db.Nodes {
		e.node(n)
	}
}

// binaryDecoder keeps the first error. Once set every read returns zero values.
type binaryDecoder struct {
	data []byte
	off  int
	err  error
}

func (d *binaryDecoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.data)-d.off {
		d.err = io.ErrUnexpectedEOF
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *binaryDecoder) u8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *binaryDecoder) u16() uint16 {
	if b := d.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (d *binaryDecoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *binaryDecoder) u64() uint64 {
	if b := d.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// count reads a sequence length and checks that elemSize*n bytes remain
func (d *binaryDecoder) count(elemSize int) int {
	n := int(d.u32())
	if d.err == nil && n*elemSize > len(d.data)-d.off {
		d.err = io.ErrUnexpectedEOF
		return 0
	}
	return n
}

func (d *binaryDecoder) i64() int {
	return int(int64(d.u64()))
}

func (d *binaryDecoder) f32() float32 {
	return math.Float32frombits(d.u32())
}

func (d *binaryDecoder) f64() float64 {
	return math.Float64frombits(d.u64())
}

func (d *binaryDecoder) bool() bool {
	return d.u8() != 0
}

func (d *binaryDecoder) bytes() []byte {
	n := d.count(1)
	b := d.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (d *binaryDecoder) str() string {
	return string(d.bytes())
}

func (d *binaryDecoder) mat4() mgl64.Mat4 {
	var m mgl64.Mat4
	for i := range m {
		m[i] = d.f64()
	}
	return m
}

func (d *binaryDecoder) vec4() mgl32.Vec4 {
	return mgl32.Vec4{d.f32(), d.f32(), d.f32(), d.f32()}
}

func (d *binaryDecoder) bound() geometry.BoundingSphere {
	center := mgl64.Vec3{d.f64(), d.f64(), d.f64()}
	return geometry.NewBoundingSphere(center, d.f64())
}

func (d *binaryDecoder) geoTransform() data.GeoTransform {
	var g data.GeoTransform
	for i := range g {
		g[i] = d.f64()
	}
	return g
}

func (d *binaryDecoder) image() *data.Image {
	if !d.bool() {
		return nil
	}
	return &data.Image{
		Width:  int(d.u32()),
		Height: int(d.u32()),
		Format: data.PixelFormat(d.u8()),
		Pix:    d.bytes(),
	}
}

func (d *binaryDecoder) appearance() *tile.Appearance {
	if !d.bool() {
		return nil
	}
	a := &tile.Appearance{Kind: tiler.AppearanceKind(d.str())}
	if d.bool() {
		a.Material = &tile.Material{
			Ambient:   d.vec4(),
			Diffuse:   d.vec4(),
			Specular:  d.vec4(),
			Emissive:  d.vec4(),
			Shininess: d.f32(),
		}
	}
	a.DisplacementMap = d.image()
	a.Image = d.image()
	a.AOMap = d.image()
	return a
}

func (d *binaryDecoder) mesh() *mesh.Mesh {
	if !d.bool() {
		return nil
	}
	m := &mesh.Mesh{
		Rows:  int(d.u32()),
		Cols:  int(d.u32()),
		Color: d.vec4(),
	}

	m.Vertices = make([]mgl32.Vec3, d.count(12))
	for i := range m.Vertices {
		m.Vertices[i] = mgl32.Vec3{d.f32(), d.f32(), d.f32()}
	}
	m.TexCoords = make([]mgl32.Vec2, d.count(8))
	for i := range m.TexCoords {
		m.TexCoords[i] = mgl32.Vec2{d.f32(), d.f32()}
	}
	m.Normals = make([]mgl32.Vec3, d.count(12))
	for i := range m.Normals {
		m.Normals[i] = mgl32.Vec3{d.f32(), d.f32(), d.f32()}
	}

	m.IndexWidth = mesh.IndexWidth(d.u8())
	switch m.IndexWidth {
	case mesh.Index32:
		m.Indices32 = make([]uint32, d.count(4))
		for i := range m.Indices32 {
			m.Indices32[i] = d.u32()
		}
	case mesh.Index16:
		m.Indices16 = make([]uint16, d.count(2))
		for i := range m.Indices16 {
			m.Indices16[i] = d.u16()
		}
	default:
		if d.err == nil {
			d.err = fmt.Errorf("invalid index width %d", m.IndexWidth)
		}
	}
	return m
}

func (d *binaryDecoder) transformNode() *tile.TransformNode {
	return &tile.TransformNode{
		Transform:  d.mat4(),
		Appearance: d.appearance(),
		Mesh:       d.mesh(),
	}
}

func (d *binaryDecoder) record() *tile.Record {
	return &tile.Record{
		Name:         d.str(),
		Row:          d.i64(),
		Col:          d.i64(),
		Transform:    d.mat4(),
		Bound:        d.bound(),
		GeoTransform: d.geoTransform(),
		Appearance:   d.appearance(),
		Mesh:         d.mesh(),
	}
}

func (d *binaryDecoder) node() *lod.Node {
	n := &lod.Node{
		Filename:  d.str(),
		Threshold: d.f64(),
		Bound:     d.bound(),
	}
	for i := range n.Children {
		n.Children[i] = lod.Child{
			Filename: d.str(),
			MinRange: d.f64(),
			MaxRange: d.f64(),
		}
	}
	return n
}

func (d *binaryDecoder) database() *lod.Database {
	db := &lod.Database{
		RadiusEquator: d.f64(),
		RadiusPolar:   d.f64(),
	}
	// a node takes at least 80 bytes
	db.Nodes = make([]*lod.Node, d.count(80))
	for i := range db.Nodes {
		db.Nodes[i] = d.node()
	}
	return db
}
