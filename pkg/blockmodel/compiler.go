package blockmodel

import (
	"encoding/json"
	"fmt"
	"log"

	"voxelmesh/pkg/geometry"

	"github.com/go-gl/mathgl/mgl32"
)

type modelVertex struct {
	x, y, z, u, v float32
}

func (mv modelVertex) toVertex(texture uint32) geometry.Vertex {
	return geometry.Vertex{
		Position: mgl32.Vec3{mv.x, mv.y, mv.z},
		UV:       mgl32.Vec3{mv.u, mv.v, float32(texture)},
		Color:    geometry.White,
		Textures: [2]uint32{texture, 0},
	}
}

type modelFace struct {
	indices [4]uint32
	quad    bool
	texture uint32
	sides   geometry.Sides
	solid   bool
}

// Compile validates a JSON model and builds its mesh cache. name is used
// for logging only. Nothing is returned on failure.
func Compile(name string, data []byte) (*BlockMesh, error) {
	if err := validate(name, data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}

	vertices := make([]modelVertex, 0, len(doc.Vertices))
	for _, vd := range doc.Vertices {
		var mv modelVertex
		mv.x, mv.y = vd.Position[0], vd.Position[1]
		if len(vd.Position) > 2 {
			mv.z = vd.Position[2]
		}
		mv.u, mv.v = vd.UV[0], vd.UV[1]
		vertices = append(vertices, mv)
	}

	var textures []string
	textureIndex := make(map[string]uint32)

	faces := make([]modelFace, 0, len(doc.Faces))
	for i := range doc.Faces {
		fd := &doc.Faces[i]
		var face modelFace

		for j, idx := range fd.Indices {
			if idx < 0 || idx >= int64(len(vertices)) {
				return nil, &IndexError{Face: i, Index: idx, Count: len(vertices)}
			}
			if j < len(face.indices) {
				face.indices[j] = uint32(idx)
			}
		}
		if len(fd.Indices) > 4 {
			log.Printf("Model %s: face %d has %d indices, only the first 4 are used", name, i, len(fd.Indices))
		}
		face.quad = len(fd.Indices) >= 4

		tex, ok := textureIndex[fd.Texture]
		if !ok {
			tex = uint32(len(textures))
			textureIndex[fd.Texture] = tex
			textures = append(textures, fd.Texture)
		}
		face.texture = tex

		for _, sideName := range fd.Sides {
			side, _ := geometry.ParseSide(sideName)
			face.sides |= side
		}
		face.solid = fd.IsSolid()

		faces = append(faces, face)
	}

	log.Printf("Compiling block model %s (%d vertices, %d faces, %d textures)", name, len(vertices), len(faces), len(textures))

	result := &BlockMesh{name: name, textures: textures}
	for _, face := range faces {
		if face.solid {
			result.solidSides |= face.sides
		} else {
			result.translucentSides |= face.sides
		}
	}

	// Bucket mask holds every face that is visible through at least one side
	// of mask, each face exactly once. A face therefore appears in every
	// bucket sharing a side with it, not only in the bucket equal to its own
	// sides; lookups by a visible-side mask depend on that.
	for mask := geometry.Sides(1); mask <= geometry.All; mask++ {
		for _, face := range faces {
			if !face.sides.Any(mask) {
				continue
			}
			appendFace(result.bucket(BucketIndex(mask, face.solid)), face, vertices)
		}
	}
	return result, nil
}

// appendFace adds one face to m. Quads are split along the 1-3 diagonal:
// (0,1,3) and (3,1,2).
func appendFace(m *geometry.Mesh, face modelFace, vertices []modelVertex) {
	base := uint32(len(m.Vertices))

	count := 3
	if face.quad {
		count = 4
	}
	for _, idx := range face.indices[:count] {
		m.Vertices = append(m.Vertices, vertices[idx].toVertex(face.texture))
	}

	if face.quad {
		m.Indices = append(m.Indices, base+0, base+1, base+3, base+3, base+1, base+2)
	} else {
		m.Indices = append(m.Indices, base+0, base+1, base+2)
	}
}
