package world

import (
	"sort"
	"sync"
)

// ChunkStore manages the storage and retrieval of chunks.
type ChunkStore struct {
	chunks   map[ChunkPosition]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkPosition]*Chunk),
	}
}

// GetChunk returns the chunk at pos.
// If the chunk doesn't exist and create is true, an empty one is created.
func (cs *ChunkStore) GetChunk(pos ChunkPosition, create bool) *Chunk {
	cs.mu.RLock()
	chunk, exists := cs.chunks[pos]
	cs.mu.RUnlock()
	if exists || !create {
		return chunk
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	// Double-check locking: another goroutine might have created it while we were waiting for the lock
	if existing, ok := cs.chunks[pos]; ok {
		return existing
	}
	chunk = NewChunk(pos)
	cs.chunks[pos] = chunk
	cs.modCount++
	return chunk
}

// RemoveChunk drops the chunk at pos.
func (cs *ChunkStore) RemoveChunk(pos ChunkPosition) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[pos]; ok {
		delete(cs.chunks, pos)
		cs.modCount++
	}
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// ModCount changes whenever a chunk is added or removed.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

func chunkOf(dimension int32, x, y, z int) (ChunkPosition, int, int, int) {
	pos := ChunkPosition{
		X:         int32(floorDiv(x, ChunkSize)),
		Y:         int32(floorDiv(y, ChunkSize)),
		Z:         int32(floorDiv(z, ChunkSize)),
		Dimension: dimension,
	}
	return pos, mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize)
}

// Get returns the block at the specified world coordinates.
func (cs *ChunkStore) Get(dimension int32, x, y, z int) Block {
	pos, lx, ly, lz := chunkOf(dimension, x, y, z)
	chunk := cs.GetChunk(pos, false)
	if chunk == nil {
		return Air
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return chunk.GetBlock(lx, ly, lz)
}

// Set sets the block at the specified world coordinates, creating the chunk
// when needed.
func (cs *ChunkStore) Set(dimension int32, x, y, z int, b Block) {
	pos, lx, ly, lz := chunkOf(dimension, x, y, z)
	chunk := cs.GetChunk(pos, true)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	chunk.SetBlock(lx, ly, lz, b)
}

// Snapshot is a copy of a chunk's blocks taken under the store lock. Meshing
// works on snapshots so that edits can continue while it runs.
type Snapshot struct {
	Position ChunkPosition
	Blocks   *Blocks
}

// TakeDirty copies every dirty chunk, marks them clean and returns the
// copies ordered by position.
func (cs *ChunkStore) TakeDirty() []Snapshot {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	var out []Snapshot
	for pos, chunk := range cs.chunks {
		if !chunk.IsDirty() {
			continue
		}
		blocks := chunk.Blocks
		out = append(out, Snapshot{Position: pos, Blocks: &blocks})
		chunk.SetClean()
	}
	sort.Slice(out, func(i, j int) bool {
		return lessPosition(out[i].Position, out[j].Position)
	})
	return out
}

// MarkDirty flags the chunk at pos for re-meshing, if it exists.
func (cs *ChunkStore) MarkDirty(pos ChunkPosition) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if chunk, ok := cs.chunks[pos]; ok {
		chunk.MarkDirty()
	}
}

func lessPosition(a, b ChunkPosition) bool {
	if a.Dimension != b.Dimension {
		return a.Dimension < b.Dimension
	}
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
