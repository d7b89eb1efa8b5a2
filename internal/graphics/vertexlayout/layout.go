package vertexlayout

import (
	"encoding/binary"
	"math"
	"unsafe"

	"voxelmesh/pkg/geometry"
)

// Kind is the component type of a vertex attribute.
type Kind uint8

const (
	Float32 Kind = iota
	Uint8
	Uint32
)

// Attribute describes one shader input inside a geometry.Vertex record.
type Attribute struct {
	Location   uint32
	Name       string
	Components int32
	Kind       Kind
	Normalized bool // integer data read as 0..1 floats
	Integer    bool // integer data read as integers
	Offset     uintptr
}

// Stride is the size of one vertex record in bytes.
const Stride = int32(unsafe.Sizeof(geometry.Vertex{}))

var zero geometry.Vertex

// Attributes returns the attribute layout of geometry.Vertex in location order.
func Attributes() []Attribute {
	return []Attribute{
		{Location: 0, Name: "aPosition", Components: 3, Kind: Float32, Offset: unsafe.Offsetof(zero.Position)},
		{Location: 1, Name: "aUV", Components: 3, Kind: Float32, Offset: unsafe.Offsetof(zero.UV)},
		{Location: 2, Name: "aColor", Components: 3, Kind: Uint8, Normalized: true, Offset: unsafe.Offsetof(zero.Color)},
		{Location: 3, Name: "aLight", Components: 3, Kind: Uint8, Normalized: true, Offset: unsafe.Offsetof(zero.Light)},
		{Location: 4, Name: "aTextures", Components: 2, Kind: Uint32, Integer: true, Offset: unsafe.Offsetof(zero.Textures)},
	}
}

// AppendVertex appends the little-endian record of v, laid out exactly as
// the GPU reads it, padding included.
func AppendVertex(buf []byte, v geometry.Vertex) []byte {
	start := len(buf)
	buf = append(buf, make([]byte, Stride)...)
	rec := buf[start:]

	putVec := func(off uintptr, vals []float32) {
		for i, f := range vals {
			binary.LittleEndian.PutUint32(rec[off+uintptr(4*i):], math.Float32bits(f))
		}
	}
	putVec(unsafe.Offsetof(zero.Position), v.Position[:])
	putVec(unsafe.Offsetof(zero.UV), v.UV[:])
	copy(rec[unsafe.Offsetof(zero.Color):], v.Color[:])
	copy(rec[unsafe.Offsetof(zero.Light):], v.Light[:])
	for i, t := range v.Textures {
		binary.LittleEndian.PutUint32(rec[unsafe.Offsetof(zero.Textures)+uintptr(4*i):], t)
	}
	return buf
}

// AppendMesh appends every vertex record followed by the little-endian
// index list.
func AppendMesh(buf []byte, m *geometry.Mesh) []byte {
	for _, v := range m.Vertices {
		buf = AppendVertex(buf, v)
	}
	for _, idx := range m.Indices {
		buf = binary.LittleEndian.AppendUint32(buf, idx)
	}
	return buf
}
