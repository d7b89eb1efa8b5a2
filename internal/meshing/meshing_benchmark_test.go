package meshing

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/world"
)

// checkerChunk fills every other block, the worst case for visibility.
func checkerChunk(b *testing.B) (*world.Blocks, MeshResolver) {
	reg, types := newTestRegistry(b)
	var blocks world.Blocks
	for i := range blocks {
		x, y, z := world.Coords(i)
		if (x+y+z)%2 == 0 {
			blocks[i] = world.Block{Type: types.stone}
		} else if y < 4 {
			blocks[i] = world.Block{Type: types.glass}
		}
	}
	return &blocks, reg
}

func BenchmarkGenerateSolidMesh(b *testing.B) {
	blocks, reg := checkerChunk(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GenerateSolidMesh(world.ChunkPosition{}, blocks, reg)
	}
}

func BenchmarkMeshChunk(b *testing.B) {
	blocks, reg := checkerChunk(b)
	snap := world.Snapshot{Blocks: blocks}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MeshChunk(snap, reg)
	}
}

func BenchmarkSortBackToFront(b *testing.B) {
	blocks, reg := checkerChunk(b)
	m := GenerateTranslucentMesh(world.ChunkPosition{}, blocks, reg)
	cameras := []mgl32.Vec3{{-10, 8, -10}, {26, 8, 26}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SortBackToFront(&m, cameras[i%2])
	}
}
