package blockmodel

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxelmesh/pkg/geometry"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
)

const testRoot = "assets-test"

var quadVertices = []VertexDef{
	{Position: []float32{0, 1, 0}, UV: []float32{0, 0}},
	{Position: []float32{0, 1, 1}, UV: []float32{0, 1}},
	{Position: []float32{1, 1, 1}, UV: []float32{1, 1}},
	{Position: []float32{1, 1, 0}, UV: []float32{1, 0}},
}

func boolPtr(b bool) *bool { return &b }

// sixSidedDocument declares one quad per side, each with its own texture.
func sixSidedDocument() Document {
	doc := Document{License: "CC0", Author: &Author{Name: "tests"}}
	for _, side := range []string{"north", "south", "east", "west", "top", "bottom"} {
		base := int64(len(doc.Vertices))
		doc.Vertices = append(doc.Vertices, quadVertices...)
		doc.Faces = append(doc.Faces, FaceDef{
			Indices: []int64{base, base + 1, base + 2, base + 3},
			Sides:   []string{side},
			Texture: "tex_" + side,
		})
	}
	return doc
}

func mustJSON(t testing.TB, doc Document) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestCompileSingleTopQuad(t *testing.T) {
	doc := Document{
		Vertices: quadVertices,
		Faces: []FaceDef{{
			Indices: []int64{0, 1, 2, 3},
			Sides:   []string{"top"},
			Texture: "block/stone",
			Solid:   boolPtr(true),
		}},
	}
	bm, err := Compile("top_quad.json", mustJSON(t, doc))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	m := bm.Bucket(int(geometry.Top))
	if m == nil {
		t.Fatalf("bucket %d is empty", geometry.Top)
	}
	if len(m.Vertices) != 4 {
		t.Errorf("got %d vertices, want 4", len(m.Vertices))
	}
	if diff := cmp.Diff([]uint32{0, 1, 3, 3, 1, 2}, m.Indices); diff != "" {
		t.Errorf("indices (-want +got):\n%s", diff)
	}
	if m != bm.SolidMesh(geometry.Top) {
		t.Errorf("SolidMesh(top) does not return bucket 16")
	}
	if bm.TranslucentMesh(geometry.Top) != nil {
		t.Errorf("solid face leaked into translucent layer")
	}

	want := geometry.Vertex{
		Position: mgl32.Vec3{1, 1, 1},
		UV:       mgl32.Vec3{1, 1, 0},
		Color:    geometry.White,
	}
	if diff := cmp.Diff(want, m.Vertices[2]); diff != "" {
		t.Errorf("vertex 2 (-want +got):\n%s", diff)
	}
	if bm.SolidSides() != geometry.Top {
		t.Errorf("SolidSides = %v, want top", bm.SolidSides())
	}
}

func TestTopFaceFansOutToTopMasks(t *testing.T) {
	doc := Document{
		Vertices: quadVertices,
		Faces:    []FaceDef{{Indices: []int64{0, 1, 2, 3}, Sides: []string{"top"}, Texture: "t"}},
	}
	bm, err := Compile("top_fanout.json", mustJSON(t, doc))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	found := 0
	for mask := geometry.Sides(1); mask <= geometry.All; mask++ {
		m := bm.SolidMesh(mask)
		if !mask.Has(geometry.Top) {
			if m != nil {
				t.Errorf("mask %v without top holds the top face", mask)
			}
			continue
		}
		if m == nil || len(m.Vertices) != 4 {
			t.Errorf("mask %v: top face missing or duplicated", mask)
			continue
		}
		found++
	}
	if found != 32 {
		t.Errorf("top face reachable through %d masks, want 32", found)
	}
}

func TestCompileBucketsFanOut(t *testing.T) {
	bm, err := Compile("six.json", mustJSON(t, sixSidedDocument()))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if bm.SolidMesh(geometry.None) != nil {
		t.Errorf("mask none must have no geometry")
	}
	for mask := geometry.Sides(1); mask <= geometry.All; mask++ {
		m := bm.SolidMesh(mask)
		if m == nil {
			t.Fatalf("mask %v: no solid mesh", mask)
		}
		var want []uint32
		for i, side := range geometry.SideOrder {
			if mask&side != 0 {
				want = append(want, uint32(i))
			}
		}
		var got []uint32
		for v := 0; v < len(m.Vertices); v += 4 {
			got = append(got, m.Vertices[v].Textures[0])
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mask %v textures (-want +got):\n%s", mask, diff)
		}
		if len(m.Indices) != 6*len(want) {
			t.Errorf("mask %v: %d indices, want %d", mask, len(m.Indices), 6*len(want))
		}
		if err := m.Validate(); err != nil {
			t.Errorf("mask %v: %v", mask, err)
		}
		if bm.TranslucentMesh(mask) != nil {
			t.Errorf("mask %v: unexpected translucent mesh", mask)
		}
	}
	if diff := cmp.Diff([]string{"tex_north", "tex_south", "tex_east", "tex_west", "tex_top", "tex_bottom"}, bm.Textures()); diff != "" {
		t.Errorf("textures (-want +got):\n%s", diff)
	}
}

func TestCompileTranslucentAndMultiSideFaces(t *testing.T) {
	doc := Document{
		Vertices: quadVertices,
		Faces: []FaceDef{
			{Indices: []int64{0, 1, 2}, Sides: []string{"north", "east"}, Texture: "glass", Solid: boolPtr(false)},
			{Indices: []int64{1, 2, 3}, Sides: []string{"bottom"}, Texture: "glass"},
		},
	}
	bm, err := Compile("mixed.json", mustJSON(t, doc))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := bm.TranslucentMesh(geometry.North); got == nil || len(got.Indices) != 3 {
		t.Errorf("translucent north: %+v", got)
	}
	if got := bm.TranslucentMesh(geometry.East | geometry.West); got == nil || len(got.Indices) != 3 {
		t.Errorf("translucent east|west: %+v", got)
	}
	if got := bm.Bucket(64 + int(geometry.North|geometry.East)); got == nil || len(got.Vertices) != 3 {
		t.Errorf("bucket 64+north|east must hold the face once: %+v", got)
	}
	if bm.TranslucentMesh(geometry.Bottom) != nil {
		t.Errorf("translucent bottom should be empty")
	}
	if got := bm.SolidMesh(geometry.Bottom | geometry.North); got == nil || len(got.Indices) != 3 {
		t.Errorf("solid bottom|north: %+v", got)
	}
	if bm.SolidMesh(geometry.North) != nil {
		t.Errorf("solid north should be empty")
	}
	if len(bm.Textures()) != 1 {
		t.Errorf("textures not deduplicated: %v", bm.Textures())
	}
	if bm.SolidSides() != geometry.Bottom || bm.TranslucentSides() != geometry.North|geometry.East {
		t.Errorf("sides: solid %v translucent %v", bm.SolidSides(), bm.TranslucentSides())
	}
}

func TestCompileTwoComponentPosition(t *testing.T) {
	doc := Document{
		Vertices: []VertexDef{
			{Position: []float32{1, 2}, UV: []float32{0, 0}},
			{Position: []float32{3, 4, 5}, UV: []float32{1, 0}},
			{Position: []float32{6, 7, 8}, UV: []float32{1, 1}},
		},
		Faces: []FaceDef{{Indices: []int64{0, 1, 2}, Sides: []string{"south"}, Texture: "t"}},
	}
	bm, err := Compile("flat.json", mustJSON(t, doc))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := bm.SolidMesh(geometry.South)
	if got := m.Vertices[0].Position; got != (mgl32.Vec3{1, 2, 0}) {
		t.Errorf("vertex 0 at %v", got)
	}
	if got := m.Vertices[1].Position; got != (mgl32.Vec3{3, 4, 5}) {
		t.Errorf("vertex 1 at %v", got)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{
			name: "index out of range",
			data: `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]},{"position":[0,1,0],"uv":[0,1]}],
				"faces":[{"indices":[0,1,5],"sides":["top"],"texture":"a"}]}`,
			want: ErrIndexOutOfRange,
		},
		{
			name: "not json",
			data: `{"vertices": [`,
			want: ErrParse,
		},
		{
			name: "trailing garbage",
			data: `{"vertices":[],"faces":[]} {}`,
			want: ErrParse,
		},
		{
			name: "additional property",
			data: `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]}],
				"faces":[{"indices":[0,1,2],"sides":["top"],"texture":"a"}],"extra":true}`,
			want: ErrSchemaViolation,
		},
		{
			name: "too few vertices",
			data: `{"vertices":[{"position":[0,0,0],"uv":[0,0]}],"faces":[{"indices":[0,0,0],"sides":["top"],"texture":"a"}]}`,
			want: ErrSchemaViolation,
		},
		{
			name: "unknown side",
			data: `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]}],
				"faces":[{"indices":[0,1,2],"sides":["up"],"texture":"a"}]}`,
			want: ErrSchemaViolation,
		},
		{
			name: "two indices",
			data: `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]}],
				"faces":[{"indices":[0,1],"sides":["top"],"texture":"a"}]}`,
			want: ErrSchemaViolation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bm, err := Compile(tc.name, []byte(tc.data))
			if bm != nil {
				t.Errorf("partial cache returned")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIndexErrorDetails(t *testing.T) {
	data := `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]},{"position":[0,1,0],"uv":[0,1]}],
		"faces":[{"indices":[0,1,5],"sides":["top"],"texture":"a"}]}`
	_, err := Compile("bad", []byte(data))
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IndexError, got %T %v", err, err)
	}
	if ie.Face != 0 || ie.Index != 5 || ie.Count != 4 {
		t.Errorf("unexpected details %+v", ie)
	}
}

func TestIndexBeyondUint32(t *testing.T) {
	data := `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]}],
		"faces":[{"indices":[0,1,4294967296],"sides":["top"],"texture":"a"}]}`
	_, err := Compile("huge", []byte(data))
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IndexError, got %T %v", err, err)
	}
	if errors.Is(err, ErrParse) {
		t.Error("large index reported as a parse error")
	}
	if ie.Index != 4294967296 || ie.Count != 3 {
		t.Errorf("unexpected details %+v", ie)
	}
}

func TestSchemaErrorDetails(t *testing.T) {
	data := `{"vertices":[{"position":[0,0,0],"uv":[0,0]},{"position":[1,0,0],"uv":[1,0]},{"position":[1,1,0],"uv":[1,1]}],
		"faces":[{"indices":[0,1,2],"sides":["top"],"texture":7}]}`
	_, err := Compile("bad", []byte(data))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %T %v", err, err)
	}
	if se.Path != "/faces/0/texture" {
		t.Errorf("path = %q", se.Path)
	}
	if se.Keyword != "type" {
		t.Errorf("keyword = %q", se.Keyword)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	loader := NewLoader(testRoot)
	// model.obj does not exist; the extension check must come first.
	_, err := loader.Load("model.obj")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("got %v, want ErrUnsupportedFileType", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(testRoot)
	_, err := loader.Load("missing.json")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("got %v, want ErrParse", err)
	}
}

func TestLoadJSONAndCJSON(t *testing.T) {
	loader := NewLoader(testRoot)
	for _, name := range []string{"six.json", "six.cjson"} {
		bm, err := loader.Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if got := bm.SolidMesh(geometry.All); got == nil || len(got.Vertices) != 24 {
			t.Errorf("%s: all-sides bucket %+v", name, got)
		}
	}
}

func TestCache(t *testing.T) {
	loader := NewLoader(testRoot)
	first, err := loader.Load("six.json")
	if err != nil {
		t.Fatalf("Failed to load model first time: %v", err)
	}
	second, err := loader.Load("six.json")
	if err != nil {
		t.Fatalf("Failed to load model second time: %v", err)
	}
	if first != second {
		t.Errorf("Expected the same model instance to be returned from cache")
	}
}

func TestLoadAll(t *testing.T) {
	loader := NewLoader(testRoot)
	models, err := loader.LoadAll(context.Background(), []string{"six.json", "six.cjson"})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(models) != 2 || models["six.json"] == nil || models["six.cjson"] == nil {
		t.Fatalf("unexpected result %v", models)
	}

	_, err = loader.LoadAll(context.Background(), []string{"six.json", "model.obj"})
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("got %v, want ErrUnsupportedFileType", err)
	}
}

func TestMain(m *testing.M) {
	os.MkdirAll(testRoot, 0755)

	data, err := json.Marshal(sixSidedDocument())
	if err != nil {
		panic(err)
	}
	writeTestFile(filepath.Join(testRoot, "six.json"), data)
	writeTestFile(filepath.Join(testRoot, "six.cjson"), data)

	exitCode := m.Run()
	os.RemoveAll(testRoot)
	os.Exit(exitCode)
}

func writeTestFile(path string, content []byte) {
	if err := os.WriteFile(path, content, 0644); err != nil {
		panic(err)
	}
}
