package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is read by the GPU as a fixed-layout record. Field order and types
// are shared with the vertex attribute setup in graphics/chunkbuffer.
type Vertex struct {
	Position mgl32.Vec3 // block-local until assembled
	UV       mgl32.Vec3 // u, v, texture layer
	Color    [3]uint8   // tint
	Light    [3]uint8
	Textures [2]uint32 // texture id, color mask id
}

// White is the neutral tint.
var White = [3]uint8{0xFF, 0xFF, 0xFF}

// vertexKey holds the exact bit pattern of a vertex. Float fields are
// compared by their bits so that -0 and +0 stay distinct.
type vertexKey [10]uint32

func keyOf(v *Vertex) vertexKey {
	return vertexKey{
		math.Float32bits(v.Position[0]),
		math.Float32bits(v.Position[1]),
		math.Float32bits(v.Position[2]),
		math.Float32bits(v.UV[0]),
		math.Float32bits(v.UV[1]),
		math.Float32bits(v.UV[2]),
		uint32(v.Color[0]) | uint32(v.Color[1])<<8 | uint32(v.Color[2])<<16,
		uint32(v.Light[0]) | uint32(v.Light[1])<<8 | uint32(v.Light[2])<<16,
		v.Textures[0],
		v.Textures[1],
	}
}
