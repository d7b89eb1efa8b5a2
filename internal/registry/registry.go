package registry

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"voxelmesh/internal/textures"
	"voxelmesh/internal/world"
	"voxelmesh/pkg/blockmodel"
)

// MeshID references a compiled block mesh. NoMesh marks a type that draws
// nothing.
type MeshID uint32

const NoMesh MeshID = 0

var (
	ErrAlreadyRegistered = errors.New("block type already registered")
	ErrUnknownMesh       = errors.New("unknown block mesh")
	ErrInvalidName       = errors.New("invalid block type name")
)

// BlockType describes how blocks of one type are drawn.
type BlockType struct {
	Name        string
	DisplayName string
	Mesh        MeshID

	// Tint overrides the vertex color per block. Optional.
	Tint func(world.Block) ([3]uint8, bool)
}

type meshEntry struct {
	name   string
	mesh   *blockmodel.BlockMesh
	layers []uint32 // model-local texture index -> atlas layer
}

// Registry maps block types to compiled meshes and textures.
type Registry struct {
	mu        sync.RWMutex
	types     []BlockType // indexed by TypeID; slot 0 is air
	names     map[string]world.TypeID
	meshes    []meshEntry // indexed by MeshID; slot 0 is NoMesh
	meshNames map[string]MeshID
	atlas     *textures.Atlas
}

func New() *Registry {
	return &Registry{
		types:     []BlockType{{Name: "air", DisplayName: "Air"}},
		names:     map[string]world.TypeID{"air": world.NoType},
		meshes:    []meshEntry{{}},
		meshNames: make(map[string]MeshID),
	}
}

// RegisterMesh stores a compiled mesh under name. Registering the same name
// again replaces the mesh and keeps its id.
func (r *Registry) RegisterMesh(name string, m *blockmodel.BlockMesh) MeshID {
	if m == nil {
		return NoMesh
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := meshEntry{name: name, mesh: m}
	if r.atlas != nil {
		entry.layers = r.atlas.Remap(m.Textures())
	}
	if id, ok := r.meshNames[name]; ok {
		r.meshes[id] = entry
		return id
	}
	id := MeshID(len(r.meshes))
	r.meshes = append(r.meshes, entry)
	r.meshNames[name] = id
	return id
}

// Register adds a block type and returns its id.
func (r *Registry) Register(t BlockType) (world.TypeID, error) {
	if t.Name == "" {
		return world.NoType, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[t.Name]; ok {
		return world.NoType, fmt.Errorf("%w: %s", ErrAlreadyRegistered, t.Name)
	}
	if t.Mesh != NoMesh && int(t.Mesh) >= len(r.meshes) {
		return world.NoType, fmt.Errorf("%w: %d for %s", ErrUnknownMesh, t.Mesh, t.Name)
	}
	if t.DisplayName == "" {
		t.DisplayName = t.Name
	}

	id := world.TypeID(len(r.types))
	r.types = append(r.types, t)
	r.names[t.Name] = id
	return id, nil
}

// Lookup finds a type id by name.
func (r *Registry) Lookup(name string) (world.TypeID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	return id, ok
}

// Type returns the registered type for id.
func (r *Registry) Type(id world.TypeID) (BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.types) {
		return BlockType{}, false
	}
	return r.types[id], true
}

// MeshID finds a mesh by the name it was registered under.
func (r *Registry) MeshID(name string) (MeshID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.meshNames[name]
	return id, ok
}

// ResolveMesh returns the mesh used to draw b. Air, unknown types and types
// without a mesh resolve to false.
func (r *Registry) ResolveMesh(b world.Block) (MeshID, bool) {
	if b.IsAir() {
		return NoMesh, false
	}
	t, ok := r.Type(b.Type)
	if !ok || t.Mesh == NoMesh {
		return NoMesh, false
	}
	return t.Mesh, true
}

// MeshCache returns the compiled buckets of a mesh.
func (r *Registry) MeshCache(id MeshID) (*blockmodel.BlockMesh, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id == NoMesh || int(id) >= len(r.meshes) || r.meshes[id].mesh == nil {
		return nil, false
	}
	return r.meshes[id].mesh, true
}

// Tint returns the per-block vertex color, if the type defines one.
func (r *Registry) Tint(b world.Block) ([3]uint8, bool) {
	t, ok := r.Type(b.Type)
	if !ok || t.Tint == nil {
		return [3]uint8{}, false
	}
	return t.Tint(b)
}

// BindAtlas assigns atlas layers to the textures of every registered mesh
// and of meshes registered later.
func (r *Registry) BindAtlas(a *textures.Atlas) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.atlas = a
	for i := 1; i < len(r.meshes); i++ {
		r.meshes[i].layers = a.Remap(r.meshes[i].mesh.Textures())
	}
	log.Printf("Bound %d meshes to %d atlas layers", len(r.meshes)-1, a.Len())
}

// TextureLayer converts a model-local texture index to an atlas layer.
// Without an atlas the local index is returned unchanged.
func (r *Registry) TextureLayer(id MeshID, local uint32) uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.meshes) {
		return local
	}
	layers := r.meshes[id].layers
	if int(local) >= len(layers) {
		return local
	}
	return layers[local]
}

// ColorfulTint reads a packed 0xRRGGBB color from the block's subid.
func ColorfulTint(b world.Block) ([3]uint8, bool) {
	c := b.SubID
	return [3]uint8{uint8(c >> 16), uint8(c >> 8), uint8(c)}, true
}
