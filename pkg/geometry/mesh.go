package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/willf/bitset"
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// NewMesh preallocates room for the given number of vertices and indices.
func NewMesh(vertices, indices int) Mesh {
	return Mesh{
		Vertices: make([]Vertex, 0, vertices),
		Indices:  make([]uint32, 0, indices),
	}
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// TriangleCount returns the number of index triples.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Clone returns a deep copy.
func (m *Mesh) Clone() Mesh {
	return Mesh{
		Vertices: append([]Vertex(nil), m.Vertices...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}

// AppendTranslated copies src onto the end of m, moving every copied vertex
// by offset and rebasing its indices. src is left untouched. The returned
// value is the position of the first copied vertex in m.Vertices.
func (m *Mesh) AppendTranslated(src *Mesh, offset mgl32.Vec3) int {
	base := len(m.Vertices)
	for _, v := range src.Vertices {
		v.Position = v.Position.Add(offset)
		m.Vertices = append(m.Vertices, v)
	}
	for _, idx := range src.Indices {
		m.Indices = append(m.Indices, idx+uint32(base))
	}
	return base
}

// Translate moves every vertex by offset.
func (m *Mesh) Translate(offset mgl32.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(offset)
	}
}

// Validate checks the triangle-list invariants.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at position %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// RemoveDuplicateVertices merges bit-identical vertices into their first
// occurrence and rewrites the indices accordingly. It returns the number of
// vertices dropped.
func (m *Mesh) RemoveDuplicateVertices() int {
	if len(m.Vertices) < 2 {
		return 0
	}

	first := make(map[vertexKey]uint32, len(m.Vertices))
	remap := make([]uint32, len(m.Vertices))
	kept := m.Vertices[:0]
	for i := range m.Vertices {
		v := m.Vertices[i]
		k := keyOf(&v)
		if at, ok := first[k]; ok {
			remap[i] = at
			continue
		}
		at := uint32(len(kept))
		first[k] = at
		remap[i] = at
		kept = append(kept, v)
	}

	removed := len(m.Vertices) - len(kept)
	if removed == 0 {
		return 0
	}
	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	m.Vertices = kept
	return removed
}

// RemoveUnreferencedVertices drops every vertex no index points at and
// compacts the remaining ones, preserving their order. It returns the number
// of vertices dropped.
func (m *Mesh) RemoveUnreferencedVertices() int {
	if len(m.Vertices) == 0 {
		return 0
	}

	reachable := bitset.New(uint(len(m.Vertices)))
	for _, idx := range m.Indices {
		reachable.Set(uint(idx))
	}
	if reachable.Count() == uint(len(m.Vertices)) {
		return 0
	}

	remap := make([]uint32, len(m.Vertices))
	kept := m.Vertices[:0]
	for i := range m.Vertices {
		if !reachable.Test(uint(i)) {
			continue
		}
		remap[i] = uint32(len(kept))
		kept = append(kept, m.Vertices[i])
	}

	removed := len(m.Vertices) - len(kept)
	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	m.Vertices = kept
	return removed
}
