package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/config"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/registry"
	"voxelmesh/internal/world"
	"voxelmesh/pkg/blockmodel"
	"voxelmesh/pkg/geometry"
)

// chunkView caches the resolved mesh of every slot so each block is looked
// up once per pass instead of once per neighbor query.
type chunkView struct {
	blocks *world.Blocks
	meshes [world.ChunkVolume]*blockmodel.BlockMesh
	ids    [world.ChunkVolume]registry.MeshID
}

func newChunkView(blocks *world.Blocks, r MeshResolver) *chunkView {
	v := &chunkView{blocks: blocks}
	for i := range blocks {
		v.meshes[i], v.ids[i] = resolve(blocks[i], r)
	}
	return v
}

func (v *chunkView) meshAt(i int) *blockmodel.BlockMesh { return v.meshes[i] }

// assemble walks every slot, copies the bucket matching the slot's
// visibility into one mesh and moves the result into world space.
func (v *chunkView) assemble(pos world.ChunkPosition, r MeshResolver, translucent bool) geometry.Mesh {
	tinter, _ := r.(Tinter)
	remapper, _ := r.(TextureRemapper)

	var out geometry.Mesh
	for i := range v.blocks {
		bm := v.meshes[i]
		if bm == nil {
			continue
		}
		x, y, z := world.Coords(i)
		mask := visibleSides(v.blocks, x, y, z, translucent, v.meshAt)
		if mask == geometry.None {
			continue
		}

		var src *geometry.Mesh
		if translucent {
			src = bm.TranslucentMesh(mask)
		} else {
			src = bm.SolidMesh(mask)
		}
		if src == nil {
			continue
		}

		base := out.AppendTranslated(src, mgl32.Vec3{float32(x), float32(y), float32(z)})
		decorate(out.Vertices[base:], v.blocks[i], v.ids[i], tinter, remapper)
	}
	out.Translate(pos.Origin())
	return out
}

// decorate applies the per-block tint and the atlas layer to freshly copied
// vertices.
func decorate(vs []geometry.Vertex, b world.Block, id registry.MeshID, t Tinter, rm TextureRemapper) {
	var tint [3]uint8
	tinted := false
	if t != nil {
		tint, tinted = t.Tint(b)
	}
	if !tinted && rm == nil {
		return
	}
	for i := range vs {
		if tinted {
			vs[i].Color = tint
		}
		if rm != nil {
			layer := rm.TextureLayer(id, vs[i].Textures[0])
			vs[i].Textures[0] = layer
			vs[i].UV[2] = float32(layer)
		}
	}
}

// GenerateSolidMesh builds the world-space solid geometry of a chunk.
// Blocks that cannot be resolved contribute nothing.
func GenerateSolidMesh(pos world.ChunkPosition, blocks *world.Blocks, r MeshResolver) geometry.Mesh {
	defer profiling.Track("meshing.solid")()

	m := newChunkView(blocks, r).assemble(pos, r, false)
	removeUnreferenced(&m)
	return m
}

// GenerateTranslucentMesh builds the world-space translucent geometry of a
// chunk. The triangles are in block order; sort them with SortBackToFront
// or a TranslucentLayer before drawing.
func GenerateTranslucentMesh(pos world.ChunkPosition, blocks *world.Blocks, r MeshResolver) geometry.Mesh {
	defer profiling.Track("meshing.translucent")()

	m := newChunkView(blocks, r).assemble(pos, r, true)
	cleanupTranslucent(&m)
	return m
}

// cleanupTranslucent merges identical vertices when enabled, then drops the
// ones no triangle uses.
func cleanupTranslucent(m *geometry.Mesh) {
	if config.GetDedupeVertices() {
		stop := profiling.Track("meshing.translucent.dedupe")
		m.RemoveDuplicateVertices()
		stop()
	}
	removeUnreferenced(m)
}

func removeUnreferenced(m *geometry.Mesh) {
	defer profiling.Track("meshing.unreferenced")()
	m.RemoveUnreferencedVertices()
}

// Result holds both layers of a meshed chunk.
type Result struct {
	Position    world.ChunkPosition
	Solid       geometry.Mesh
	Translucent geometry.Mesh
}

// Empty reports whether neither layer has triangles.
func (r *Result) Empty() bool {
	return r.Solid.Empty() && r.Translucent.Empty()
}

// MeshChunk meshes both layers of a chunk snapshot, resolving each block
// once for both passes.
func MeshChunk(snap world.Snapshot, r MeshResolver) Result {
	defer profiling.Track("meshing.chunk")()

	v := newChunkView(snap.Blocks, r)

	solid := v.assemble(snap.Position, r, false)
	removeUnreferenced(&solid)

	translucent := v.assemble(snap.Position, r, true)
	cleanupTranslucent(&translucent)

	return Result{Position: snap.Position, Solid: solid, Translucent: translucent}
}
