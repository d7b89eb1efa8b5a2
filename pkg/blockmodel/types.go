package blockmodel

// Document is the on-disk block model: a shared vertex pool and faces that
// reference it by index.
type Document struct {
	Author   *Author     `json:"author,omitempty"`
	License  string      `json:"license,omitempty"`
	Vertices []VertexDef `json:"vertices"`
	Faces    []FaceDef   `json:"faces"`
}

type Author struct {
	Name string `json:"name"`
}

// VertexDef is a model vertex. Position may omit z.
type VertexDef struct {
	Position []float32 `json:"position"`
	UV       []float32 `json:"uv"`
}

// FaceDef is a triangle (3 indices) or quad (4 indices) visible for every
// side listed in Sides.
type FaceDef struct {
	Indices []int64  `json:"indices"`
	Sides   []string `json:"sides"`
	Texture string   `json:"texture"`
	Solid   *bool    `json:"solid,omitempty"`
}

// IsSolid applies the default for an absent "solid" key.
func (f *FaceDef) IsSolid() bool {
	return f.Solid == nil || *f.Solid
}
