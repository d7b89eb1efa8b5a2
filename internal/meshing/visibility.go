package meshing

import (
	"voxelmesh/internal/registry"
	"voxelmesh/internal/world"
	"voxelmesh/pkg/blockmodel"
	"voxelmesh/pkg/geometry"
)

// MeshResolver maps blocks to compiled meshes. registry.Registry is the
// usual implementation.
type MeshResolver interface {
	ResolveMesh(b world.Block) (registry.MeshID, bool)
	MeshCache(id registry.MeshID) (*blockmodel.BlockMesh, bool)
}

// Tinter is implemented by resolvers that color blocks individually.
type Tinter interface {
	Tint(b world.Block) ([3]uint8, bool)
}

// TextureRemapper is implemented by resolvers that turn model-local texture
// indexes into atlas layers.
type TextureRemapper interface {
	TextureLayer(id registry.MeshID, local uint32) uint32
}

// resolve follows block -> mesh id -> compiled mesh. Any missing link
// yields nil, which meshing treats as air.
func resolve(b world.Block, r MeshResolver) (*blockmodel.BlockMesh, registry.MeshID) {
	if b.IsAir() {
		return nil, registry.NoMesh
	}
	id, ok := r.ResolveMesh(b)
	if !ok {
		return nil, registry.NoMesh
	}
	bm, ok := r.MeshCache(id)
	if !ok {
		return nil, registry.NoMesh
	}
	return bm, id
}

// VisibleSides returns the sides of the block at local (x,y,z) that are not
// covered by a neighbor. Chunk-boundary sides are always visible.
func VisibleSides(blocks *world.Blocks, x, y, z int, r MeshResolver) geometry.Sides {
	return visibleSides(blocks, x, y, z, false, func(i int) *blockmodel.BlockMesh {
		bm, _ := resolve(blocks[i], r)
		return bm
	})
}

// VisibleTranslucentSides is VisibleSides for the translucent layer: a face
// shared with a neighbor of the same type and subid is hidden as well.
func VisibleTranslucentSides(blocks *world.Blocks, x, y, z int, r MeshResolver) geometry.Sides {
	return visibleSides(blocks, x, y, z, true, func(i int) *blockmodel.BlockMesh {
		bm, _ := resolve(blocks[i], r)
		return bm
	})
}

func visibleSides(blocks *world.Blocks, x, y, z int, translucent bool, meshAt func(i int) *blockmodel.BlockMesh) geometry.Sides {
	self := blocks[world.Index(x, y, z)]
	visible := geometry.None
	for _, side := range geometry.SideOrder {
		dx, dy, dz := side.Offset()
		nx, ny, nz := x+dx, y+dy, z+dz
		if !world.InBounds(nx, ny, nz) {
			visible |= side
			continue
		}

		i := world.Index(nx, ny, nz)
		if nb := meshAt(i); nb != nil && nb.SolidSides().Has(side.Opposite()) {
			continue
		}
		if translucent && blocks[i].SameKind(self) {
			continue
		}
		visible |= side
	}
	return visible
}
