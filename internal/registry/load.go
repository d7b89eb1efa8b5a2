package registry

import (
	"context"
	"fmt"
	"log"

	"voxelmesh/internal/world"
	"voxelmesh/pkg/blockmodel"
)

// Definition names a block type and the model file it is drawn with. An
// empty Model registers a type without a mesh.
type Definition struct {
	Name        string
	DisplayName string
	Model       string
	Tint        func(world.Block) ([3]uint8, bool)
}

// LoadDefinitions compiles every referenced model through loader and
// registers the types in order. Models shared by several types are compiled
// once.
func (r *Registry) LoadDefinitions(ctx context.Context, loader *blockmodel.Loader, defs []Definition) error {
	var models []string
	seen := make(map[string]bool)
	for _, d := range defs {
		if d.Model != "" && !seen[d.Model] {
			seen[d.Model] = true
			models = append(models, d.Model)
		}
	}

	meshes, err := loader.LoadAll(ctx, models)
	if err != nil {
		return err
	}
	ids := make(map[string]MeshID, len(meshes))
	for _, name := range models {
		ids[name] = r.RegisterMesh(name, meshes[name])
	}

	for _, d := range defs {
		t := BlockType{
			Name:        d.Name,
			DisplayName: d.DisplayName,
			Mesh:        ids[d.Model],
			Tint:        d.Tint,
		}
		if _, err := r.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", d.Name, err)
		}
	}
	log.Printf("Registered %d block types with %d meshes", len(defs), len(models))
	return nil
}
