package world

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIndexLayout(t *testing.T) {
	if got := Index(1, 0, 0); got != 256 {
		t.Errorf("Index(1,0,0) = %d, want 256", got)
	}
	if got := Index(0, 1, 0); got != 16 {
		t.Errorf("Index(0,1,0) = %d, want 16", got)
	}
	if got := Index(15, 15, 15); got != ChunkVolume-1 {
		t.Errorf("Index(15,15,15) = %d", got)
	}
	for i := 0; i < ChunkVolume; i++ {
		x, y, z := Coords(i)
		if Index(x, y, z) != i {
			t.Fatalf("Coords(%d) = %d,%d,%d does not round trip", i, x, y, z)
		}
	}
}

func TestChunkDirtyTracking(t *testing.T) {
	c := NewChunk(ChunkPosition{})
	if !c.IsDirty() {
		t.Fatal("new chunk should need meshing")
	}
	c.SetClean()

	stone := Block{Type: 1}
	c.SetBlock(3, 4, 5, stone)
	if !c.IsDirty() {
		t.Fatal("SetBlock did not mark dirty")
	}
	c.SetClean()
	c.SetBlock(3, 4, 5, stone)
	if c.IsDirty() {
		t.Error("writing the same block marked dirty")
	}
	c.SetBlock(16, 0, 0, stone)
	if c.IsDirty() {
		t.Error("out of range write marked dirty")
	}
	if got := c.GetBlock(3, 4, 5); got != stone {
		t.Errorf("GetBlock = %+v", got)
	}
	if got := c.GetBlock(-1, 0, 0); !got.IsAir() {
		t.Errorf("out of range read = %+v, want air", got)
	}
}

func TestChunkOrigin(t *testing.T) {
	pos := ChunkPosition{X: 2, Y: -1, Z: 3, Dimension: 7}
	if got := pos.Origin(); got != (mgl32.Vec3{32, -16, 48}) {
		t.Errorf("Origin() = %v", got)
	}
}

func TestPayloadKinds(t *testing.T) {
	p := IntPayload(-42)
	if v, err := p.Int(); err != nil || v != -42 {
		t.Errorf("Int() = %d, %v", v, err)
	}
	if _, err := p.Float(); !errors.Is(err, ErrPayloadKind) {
		t.Errorf("Float() on int payload: %v", err)
	}

	f := FloatPayload(1.5)
	if v, err := f.Float(); err != nil || v != 1.5 {
		t.Errorf("Float() = %v, %v", v, err)
	}
	if _, err := f.Handle(); !errors.Is(err, ErrPayloadKind) {
		t.Errorf("Handle() on float payload: %v", err)
	}

	var none Payload
	if none.Kind() != PayloadNone {
		t.Errorf("zero payload kind = %v", none.Kind())
	}
	if _, err := none.Int(); !errors.Is(err, ErrPayloadKind) {
		t.Errorf("Int() on empty payload: %v", err)
	}

	h := HandlePayload(9)
	if v, err := h.Handle(); err != nil || v != 9 {
		t.Errorf("Handle() = %d, %v", v, err)
	}
}

func TestSameKind(t *testing.T) {
	a := Block{Type: 2, SubID: 1, Data: IntPayload(1)}
	b := Block{Type: 2, SubID: 1, Data: IntPayload(5)}
	c := Block{Type: 2, SubID: 3}
	if !a.SameKind(b) {
		t.Error("payload must not affect SameKind")
	}
	if a.SameKind(c) {
		t.Error("different subid reported as same kind")
	}
}

func TestChunkStoreWorldCoords(t *testing.T) {
	cs := NewChunkStore()
	stone := Block{Type: 1}
	cs.Set(0, -1, 0, 17, stone)

	c := cs.GetChunk(ChunkPosition{X: -1, Y: 0, Z: 1}, false)
	if c == nil {
		t.Fatal("chunk (-1,0,1) was not created")
	}
	if got := c.GetBlock(15, 0, 1); got != stone {
		t.Errorf("local (15,0,1) = %+v", got)
	}
	if got := cs.Get(0, -1, 0, 17); got != stone {
		t.Errorf("Get = %+v", got)
	}
	if got := cs.Get(1, -1, 0, 17); !got.IsAir() {
		t.Errorf("other dimension = %+v, want air", got)
	}
}

func TestChunkStoreTakeDirty(t *testing.T) {
	cs := NewChunkStore()
	cs.Set(0, 20, 0, 0, Block{Type: 1})
	cs.Set(0, 0, 0, 0, Block{Type: 1})

	snaps := cs.TakeDirty()
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if snaps[0].Position.X != 0 || snaps[1].Position.X != 1 {
		t.Errorf("snapshots not ordered: %v %v", snaps[0].Position, snaps[1].Position)
	}
	if len(cs.TakeDirty()) != 0 {
		t.Error("chunks still dirty after TakeDirty")
	}

	// snapshots are copies
	cs.Set(0, 0, 0, 0, Block{Type: 2})
	if snaps[0].Blocks[0].Type != 1 {
		t.Error("snapshot shares memory with the chunk")
	}
	if got := cs.TakeDirty(); len(got) != 1 {
		t.Errorf("edit after snapshot: %d dirty, want 1", len(got))
	}

	cs.RemoveChunk(ChunkPosition{})
	if cs.Len() != 1 {
		t.Errorf("Len = %d after remove", cs.Len())
	}
}
