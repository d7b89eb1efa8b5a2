package blockmodel

import (
	"voxelmesh/pkg/geometry"
)

const (
	// BucketCount is the number of precomputed meshes a block model can hold:
	// one per side mask for each of the solid and translucent layers.
	BucketCount = 128

	translucentBase = 64
)

// BucketIndex returns the cache slot for a visibility mask on a layer.
func BucketIndex(mask geometry.Sides, solid bool) int {
	i := int(mask & geometry.All)
	if !solid {
		i += translucentBase
	}
	return i
}

// BlockMesh is a compiled block model. It is immutable once Compile returns
// and may be read from any number of goroutines. Meshes it hands out are
// shared and must not be modified.
type BlockMesh struct {
	name     string
	buckets  [BucketCount]*geometry.Mesh
	textures []string

	solidSides       geometry.Sides
	translucentSides geometry.Sides
}

func (b *BlockMesh) Name() string { return b.name }

// SolidMesh returns the solid geometry declared for exactly mask, or nil.
func (b *BlockMesh) SolidMesh(mask geometry.Sides) *geometry.Mesh {
	return b.buckets[BucketIndex(mask, true)]
}

// TranslucentMesh returns the translucent geometry declared for exactly mask, or nil.
func (b *BlockMesh) TranslucentMesh(mask geometry.Sides) *geometry.Mesh {
	return b.buckets[BucketIndex(mask, false)]
}

// Bucket returns slot i (0..127), or nil when the slot is empty or i is out of range.
func (b *BlockMesh) Bucket(i int) *geometry.Mesh {
	if i < 0 || i >= BucketCount {
		return nil
	}
	return b.buckets[i]
}

// Buckets calls fn for every populated slot in ascending order.
func (b *BlockMesh) Buckets(fn func(i int, m *geometry.Mesh)) {
	for i, m := range b.buckets {
		if m != nil {
			fn(i, m)
		}
	}
}

// Textures returns the deduplicated texture references in first-use order.
// A vertex's local texture index points into this list.
func (b *BlockMesh) Textures() []string {
	return append([]string(nil), b.textures...)
}

// SolidSides is the union of the sides of every solid face. A neighbor uses
// it to decide whether this block hides the face between them.
func (b *BlockMesh) SolidSides() geometry.Sides { return b.solidSides }

// TranslucentSides is the union of the sides of every translucent face.
func (b *BlockMesh) TranslucentSides() geometry.Sides { return b.translucentSides }

func (b *BlockMesh) bucket(i int) *geometry.Mesh {
	if b.buckets[i] == nil {
		b.buckets[i] = &geometry.Mesh{}
	}
	return b.buckets[i]
}
