package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type IndexWidth uint8

const (
	Index16 IndexWidth = 16
	Index32 IndexWidth = 32
)

// Largest vertex count addressable with 16 bit indices
const MaxIndex16Vertices = math.MaxUint16

func (w IndexWidth) String() string {
	if w == Index16 {
		return "uint16"
	} else if w == Index32 {
		return "uint32"
	}
	return ""
}

// IndexWidthFor picks the narrowest index type able to address numVertices.
// 16 bit indices past 65535 vertices wrap around and corrupt the mesh.
func IndexWidthFor(numVertices int) IndexWidth {
	if numVertices > MaxIndex16Vertices {
		return Index32
	}
	return Index16
}

// Regular grid triangle mesh expressed in a tile local frame.
// Vertices, TexCoords and Normals are index aligned. Exactly one of Indices16/Indices32 is
// populated, according to IndexWidth.
type Mesh struct {
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Vertices   []mgl32.Vec3 `json:"vertices"`
	TexCoords  []mgl32.Vec2 `json:"texcoords"`
	Normals    []mgl32.Vec3 `json:"normals"`
	Color      mgl32.Vec4   `json:"color"`
	IndexWidth IndexWidth   `json:"indexWidth"`
	Indices16  []uint16     `json:"indices16,omitempty"`
	Indices32  []uint32     `json:"indices32,omitempty"`
}

func (m *Mesh) NumVertices() int {
	return len(m.Vertices)
}

func (m *Mesh) NumIndices() int {
	if m.IndexWidth == Index32 {
		return len(m.Indices32)
	}
	return len(m.Indices16)
}

func (m *Mesh) Index(i int) int {
	if m.IndexWidth == Index32 {
		return int(m.Indices32[i])
	}
	return int(m.Indices16[i])
}

// NumIndicesFor is the index count of a rows x cols grid, two triangles per quad
func NumIndicesFor(rows, cols int) int {
	return (rows - 1) * (cols - 1) * 6
}

// triangulate fills the index array of the grid. The quad (r, c) becomes the triangles
// (lower, lower+1, upper) and (upper, lower+1, upper+1).
func (m *Mesh) triangulate() {
	numIndices := NumIndicesFor(m.Rows, m.Cols)
	m.IndexWidth = IndexWidthFor(m.Rows * m.Cols)

	if m.IndexWidth == Index32 {
		m.Indices32 = make([]uint32, 0, numIndices)
	} else {
		m.Indices16 = make([]uint16, 0, numIndices)
	}

	for r := 0; r < m.Rows-1; r++ {
		for c := 0; c < m.Cols-1; c++ {
			lower := m.Cols*r + c
			upper := lower + m.Cols

			m.appendTriangle(lower, lower+1, upper)
			m.appendTriangle(upper, lower+1, upper+1)
		}
	}
}

func (m *Mesh) appendTriangle(a, b, c int) {
	if m.IndexWidth == Index32 {
		m.Indices32 = append(m.Indices32, uint32(a), uint32(b), uint32(c))
	} else {
		m.Indices16 = append(m.Indices16, uint16(a), uint16(b), uint16(c))
	}
}

// Validate checks the structural invariants of a grid mesh
func (m *Mesh) Validate() error {
	if m.Rows < 2 || m.Cols < 2 {
		return fmt.Errorf("grid %dx%d is too small", m.Rows, m.Cols)
	}

	numVertices := m.Rows * m.Cols
	if len(m.Vertices) != numVertices {
		return fmt.Errorf("%d vertices for a %dx%d grid", len(m.Vertices), m.Rows, m.Cols)
	}
	if len(m.TexCoords) != numVertices || len(m.Normals) != numVertices {
		return fmt.Errorf("vertex attributes are not aligned: %d texcoords, %d normals, %d vertices",
			len(m.TexCoords), len(m.Normals), numVertices)
	}
	if m.IndexWidth != IndexWidthFor(numVertices) {
		return fmt.Errorf("index width %s cannot address %d vertices", m.IndexWidth, numVertices)
	}
	if m.NumIndices() != NumIndicesFor(m.Rows, m.Cols) {
		return fmt.Errorf("%d indices for a %dx%d grid", m.NumIndices(), m.Rows, m.Cols)
	}

	for i := 0; i < m.NumIndices(); i++ {
		if idx := m.Index(i); idx >= numVertices {
			return fmt.Errorf("index %d references vertex %d of %d", i, idx, numVertices)
		}
	}
	return nil
}
