package vertexlayout

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/pkg/geometry"
)

func TestAttributesCoverRecord(t *testing.T) {
	if Stride != 40 {
		t.Fatalf("Stride = %d, want 40", Stride)
	}
	want := []uintptr{0, 12, 24, 27, 32}
	attrs := Attributes()
	if len(attrs) != len(want) {
		t.Fatalf("got %d attributes", len(attrs))
	}
	for i, a := range attrs {
		if a.Location != uint32(i) {
			t.Errorf("%s location %d", a.Name, a.Location)
		}
		if a.Offset != want[i] {
			t.Errorf("%s offset %d, want %d", a.Name, a.Offset, want[i])
		}
	}
}

func TestAppendVertex(t *testing.T) {
	v := geometry.Vertex{
		Position: mgl32.Vec3{1, -2, 3.5},
		UV:       mgl32.Vec3{0.25, 0.75, 7},
		Color:    [3]uint8{1, 2, 3},
		Light:    [3]uint8{4, 5, 6},
		Textures: [2]uint32{7, 0xdeadbeef},
	}
	buf := AppendVertex([]byte{0xAA}, v)
	if len(buf) != 1+int(Stride) {
		t.Fatalf("len = %d", len(buf))
	}
	rec := buf[1:]

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(rec[off:])) }
	if f(4) != -2 || f(8) != 3.5 || f(20) != 7 {
		t.Errorf("float fields wrong: %v %v %v", f(4), f(8), f(20))
	}
	if rec[24] != 1 || rec[26] != 3 || rec[27] != 4 || rec[29] != 6 {
		t.Errorf("byte fields wrong: % x", rec[24:30])
	}
	if got := binary.LittleEndian.Uint32(rec[36:]); got != 0xdeadbeef {
		t.Errorf("color mask = %#x", got)
	}
}

func TestAppendMesh(t *testing.T) {
	m := geometry.Mesh{
		Vertices: make([]geometry.Vertex, 3),
		Indices:  []uint32{0, 1, 2},
	}
	buf := AppendMesh(nil, &m)
	if len(buf) != 3*int(Stride)+3*4 {
		t.Fatalf("len = %d", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[3*Stride+8:]); got != 2 {
		t.Errorf("last index = %d", got)
	}
}
