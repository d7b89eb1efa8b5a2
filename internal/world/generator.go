package world

import (
	"math"
)

// Palette is the set of blocks a generator places.
type Palette struct {
	Surface Block
	Filler  Block
	Liquid  Block // fills air below sea level; air disables it
}

// TerrainGenerator fills chunks with demo terrain.
type TerrainGenerator interface {
	HeightAt(worldX, worldZ int) int
	PopulateChunk(c *Chunk)
}

// heightNoise is fractal value noise on the x/z plane. Samples lie in [0,1]
// and depend only on the seed and the coordinates.
type heightNoise struct {
	seed        uint64
	octaves     int
	persistence float64
	lacunarity  float64
}

// lattice hashes one grid corner of one octave to [0,1).
func (n heightNoise) lattice(x, z int64, octave int) float64 {
	h := n.seed ^ uint64(octave)*0xD6E8FEB86659FD93
	h ^= uint64(x) * 0x9E3779B97F4A7C15
	h ^= uint64(z) * 0xC2B2AE3D27D4EB4F
	h = (h ^ h>>30) * 0xBF58476D1CE4E5B9
	h = (h ^ h>>27) * 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11) / (1 << 53)
}

func (n heightNoise) octave(x, z float64, octave int) float64 {
	cx, cz := math.Floor(x), math.Floor(z)
	ix, iz := int64(cx), int64(cz)
	tx, tz := smootherstep(x-cx), smootherstep(z-cz)

	north := mix(n.lattice(ix, iz, octave), n.lattice(ix+1, iz, octave), tx)
	south := mix(n.lattice(ix, iz+1, octave), n.lattice(ix+1, iz+1, octave), tx)
	return mix(north, south, tz)
}

// At sums the octaves, each at lacunarity times the previous frequency and
// persistence times its weight, normalised back to [0,1].
func (n heightNoise) At(x, z float64) float64 {
	var sum, total float64
	weight, freq := 1.0, 1.0
	for o := range n.octaves {
		sum += weight * n.octave(x*freq, z*freq, o)
		total += weight
		weight *= n.persistence
		freq *= n.lacunarity
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func smootherstep(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func mix(a, b, t float64) float64 { return a + (b-a)*t }

// Generator builds a noise heightmap with a liquid layer up to sea level.
type Generator struct {
	noise      heightNoise
	scale      float64
	baseHeight int
	amp        float64
	seaLevel   int
	palette    Palette
}

// NewGenerator creates a generator whose terrain fits in one chunk layer.
func NewGenerator(seed int64, p Palette) *Generator {
	return &Generator{
		noise:      heightNoise{seed: uint64(seed), octaves: 4, persistence: 0.5, lacunarity: 2},
		scale:      1.0 / 24.0,
		baseHeight: 2,
		amp:        12,
		seaLevel:   7,
		palette:    p,
	}
}

// HeightAt computes world surface height (block Y) at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.At(float64(worldX)*g.scale, float64(worldZ)*g.scale)
	height := float64(g.baseHeight) + n*g.amp
	if height < 0 {
		height = 0
	}
	return int(math.Floor(height))
}

// PopulateChunk fills a chunk from the heightmap.
func (g *Generator) PopulateChunk(c *Chunk) {
	populateColumns(c, g.HeightAt, g.seaLevel, g.palette)
}

// FlatGenerator places a flat surface at a fixed height.
type FlatGenerator struct {
	height  int
	palette Palette
}

func NewFlatGenerator(height int, p Palette) *FlatGenerator {
	return &FlatGenerator{height: height, palette: p}
}

func (g *FlatGenerator) HeightAt(worldX, worldZ int) int { return g.height }

func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	populateColumns(c, g.HeightAt, math.MinInt, g.palette)
}

func populateColumns(c *Chunk, heightAt func(x, z int) int, seaLevel int, p Palette) {
	baseX := int(c.Position.X) * ChunkSize
	baseY := int(c.Position.Y) * ChunkSize
	baseZ := int(c.Position.Z) * ChunkSize
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			height := heightAt(baseX+lx, baseZ+lz)
			for ly := range ChunkSize {
				y := baseY + ly
				switch {
				case y < height:
					c.SetBlock(lx, ly, lz, p.Filler)
				case y == height:
					c.SetBlock(lx, ly, lz, p.Surface)
				case y <= seaLevel && !p.Liquid.IsAir():
					c.SetBlock(lx, ly, lz, p.Liquid)
				}
			}
		}
	}
}
