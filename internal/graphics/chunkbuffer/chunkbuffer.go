package chunkbuffer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"voxelmesh/internal/graphics/vertexlayout"
	"voxelmesh/pkg/geometry"
)

// Buffers is the GPU copy of one chunk layer. Methods must be called on the
// thread that owns the GL context.
type Buffers struct {
	VAO, VBO, EBO uint32
	IndexCount    int32
}

func glKind(k vertexlayout.Kind) uint32 {
	switch k {
	case vertexlayout.Uint8:
		return gl.UNSIGNED_BYTE
	case vertexlayout.Uint32:
		return gl.UNSIGNED_INT
	}
	return gl.FLOAT
}

func (b *Buffers) init() {
	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.GenBuffers(1, &b.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)

	for _, a := range vertexlayout.Attributes() {
		gl.EnableVertexAttribArray(a.Location)
		if a.Integer {
			gl.VertexAttribIPointerWithOffset(a.Location, a.Components, glKind(a.Kind), vertexlayout.Stride, a.Offset)
		} else {
			gl.VertexAttribPointerWithOffset(a.Location, a.Components, glKind(a.Kind), a.Normalized, vertexlayout.Stride, a.Offset)
		}
	}
}

// Upload replaces the buffer contents with m, creating the GL objects on
// first use.
func (b *Buffers) Upload(m *geometry.Mesh) {
	if b.VAO == 0 {
		b.init()
	}
	gl.BindVertexArray(b.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	if len(m.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(vertexlayout.Stride), gl.Ptr(m.Vertices), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	b.uploadIndices(m.Indices, gl.STATIC_DRAW)
}

// UpdateIndices re-uploads only the index list, used after a translucent
// re-sort where the vertices are unchanged.
func (b *Buffers) UpdateIndices(m *geometry.Mesh) {
	if b.VAO == 0 {
		b.Upload(m)
		return
	}
	gl.BindVertexArray(b.VAO)
	b.uploadIndices(m.Indices, gl.DYNAMIC_DRAW)
}

func (b *Buffers) uploadIndices(indices []uint32, usage uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), usage)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, usage)
	}
	b.IndexCount = int32(len(indices))
}

// Draw issues the indexed draw call. Empty buffers draw nothing.
func (b *Buffers) Draw() {
	if b.VAO == 0 || b.IndexCount == 0 {
		return
	}
	gl.BindVertexArray(b.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, b.IndexCount, gl.UNSIGNED_INT, 0)
}

// Delete frees the GL objects.
func (b *Buffers) Delete() {
	if b.VAO != 0 {
		gl.DeleteVertexArrays(1, &b.VAO)
		b.VAO = 0
	}
	if b.VBO != 0 {
		gl.DeleteBuffers(1, &b.VBO)
		b.VBO = 0
	}
	if b.EBO != 0 {
		gl.DeleteBuffers(1, &b.EBO)
		b.EBO = 0
	}
	b.IndexCount = 0
}
