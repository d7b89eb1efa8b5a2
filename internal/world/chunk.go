package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Chunk dimensions
	ChunkSize   = 16
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// Blocks is a chunk's block array, indexed by Index.
type Blocks [ChunkVolume]Block

// Index converts local coordinates to a flat index: x*256 + y*16 + z.
func Index(x, y, z int) int {
	return x<<8 | y<<4 | z
}

// Coords is the inverse of Index.
func Coords(i int) (x, y, z int) {
	return i >> 8 & 0xF, i >> 4 & 0xF, i & 0xF
}

// InBounds reports whether local coordinates fall inside a chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// At returns the block at local coordinates. Out of range reads are air.
func (b *Blocks) At(x, y, z int) Block {
	if !InBounds(x, y, z) {
		return Air
	}
	return b[Index(x, y, z)]
}

// ChunkPosition is a chunk coordinate plus the dimension it lives in.
type ChunkPosition struct {
	X, Y, Z   int32
	Dimension int32
}

// Origin is the world-space position of the chunk's local (0,0,0).
func (p ChunkPosition) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(p.X) * ChunkSize,
		float32(p.Y) * ChunkSize,
		float32(p.Z) * ChunkSize,
	}
}

func (p ChunkPosition) String() string {
	return fmt.Sprintf("(%d,%d,%d)@%d", p.X, p.Y, p.Z, p.Dimension)
}

// Chunk is a 16x16x16 block volume.
type Chunk struct {
	Position ChunkPosition
	Blocks   Blocks
	dirty    bool
}

// NewChunk creates an empty chunk that still needs meshing.
func NewChunk(pos ChunkPosition) *Chunk {
	return &Chunk{
		Position: pos,
		dirty:    true,
	}
}

// GetBlock returns the block at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) Block {
	return c.Blocks.At(x, y, z)
}

// SetBlock sets the block at the specified local coordinates
func (c *Chunk) SetBlock(x, y, z int, b Block) {
	if !InBounds(x, y, z) {
		return
	}
	i := Index(x, y, z)
	if c.Blocks[i] != b {
		c.Blocks[i] = b
		c.dirty = true
	}
}

// Fill sets every block for which keep returns true.
func (c *Chunk) Fill(b Block, keep func(x, y, z int) bool) {
	for i := range c.Blocks {
		x, y, z := Coords(i)
		if keep == nil || keep(x, y, z) {
			c.SetBlock(x, y, z, b)
		}
	}
}

// IsDirty returns whether the chunk has been modified since it was last meshed
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// SetClean marks the chunk as meshed
func (c *Chunk) SetClean() {
	c.dirty = false
}

// MarkDirty forces a re-mesh.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}
