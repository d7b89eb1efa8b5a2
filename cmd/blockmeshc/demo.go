package main

import (
	"fmt"

	"voxelmesh/internal/world"
)

// patterns fill the chunks of a demo scene.
var patterns = map[string]func(store *world.ChunkStore, radius int, solid, liquid world.Block){
	"floor":   floorScene,
	"cube":    cubeScene,
	"checker": checkerScene,
	"terrain": terrainScene,
}

func eachChunk(radius int, fn func(pos world.ChunkPosition)) {
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			fn(world.ChunkPosition{X: int32(x), Z: int32(z)})
		}
	}
}

func floorScene(store *world.ChunkStore, radius int, solid, liquid world.Block) {
	g := world.NewFlatGenerator(0, world.Palette{Surface: solid, Filler: solid})
	eachChunk(radius, func(pos world.ChunkPosition) {
		g.PopulateChunk(store.GetChunk(pos, true))
	})
}

func cubeScene(store *world.ChunkStore, radius int, solid, liquid world.Block) {
	eachChunk(radius, func(pos world.ChunkPosition) {
		store.GetChunk(pos, true).Fill(solid, func(x, y, z int) bool {
			return x >= 4 && x < 12 && y >= 4 && y < 12 && z >= 4 && z < 12
		})
	})
	if !liquid.IsAir() {
		// a translucent shell around the origin chunk's cube
		store.GetChunk(world.ChunkPosition{}, true).Fill(liquid, func(x, y, z int) bool {
			inside := x >= 3 && x < 13 && y >= 3 && y < 13 && z >= 3 && z < 13
			core := x >= 4 && x < 12 && y >= 4 && y < 12 && z >= 4 && z < 12
			return inside && !core
		})
	}
}

func checkerScene(store *world.ChunkStore, radius int, solid, liquid world.Block) {
	eachChunk(radius, func(pos world.ChunkPosition) {
		c := store.GetChunk(pos, true)
		c.Fill(solid, func(x, y, z int) bool { return (x+y+z)%2 == 0 })
		if !liquid.IsAir() {
			c.Fill(liquid, func(x, y, z int) bool { return (x+y+z)%2 == 1 && y < 2 })
		}
	})
}

func terrainScene(store *world.ChunkStore, radius int, solid, liquid world.Block) {
	g := world.NewGenerator(1337, world.Palette{Surface: solid, Filler: solid, Liquid: liquid})
	eachChunk(radius, func(pos world.ChunkPosition) {
		g.PopulateChunk(store.GetChunk(pos, true))
	})
}

func buildScene(name string, radius int, solid, liquid world.Block) (*world.ChunkStore, error) {
	fill, ok := patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
	store := world.NewChunkStore()
	fill(store, radius, solid, liquid)
	return store, nil
}
