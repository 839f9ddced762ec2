package gen

import (
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/pkg/random"
)

const (
	SeaLevel = 63

	bedrockY     = MinY
	minSurface   = 40
	maxSurface   = 140
	surfaceDepth = 4
)

// ChunkObserver receives what the vein pass did to a chunk.
type ChunkObserver interface {
	// VeinPlaced is called for every voxel the vein pass overrides.
	VeinPlaced(pos BlockPos, s *block.State)
	// ChunkDone is called once per chunk with the router's cache counters.
	ChunkDone(pos ChunkPos, stats RouterStats)
}

// VeinGenerator builds simple heightmap terrain and runs the ore-vein pass
// over its stone and deepslate.
type VeinGenerator struct {
	terrain  *NoiseGenerator
	detail   *NoiseGenerator
	veins    *VeinNoise
	sampler  *OreVeinSampler
	observer ChunkObserver
}

// VeinOption configures a VeinGenerator.
type VeinOption func(*VeinGenerator)

// WithObserver installs an observer. It must be safe for concurrent use.
func WithObserver(o ChunkObserver) VeinOption {
	return func(g *VeinGenerator) { g.observer = o }
}

// NewVeinGenerator creates a generator for the world seed. legacy selects the
// pre-1.18 random source for the ore deriver.
func NewVeinGenerator(seed int64, legacy bool, opts ...VeinOption) *VeinGenerator {
	root, ore := random.NewWorldDerivers(seed, legacy)
	g := &VeinGenerator{
		terrain: NewNoiseGeneratorFrom(root.SplitString("minecraft:terrain")),
		detail:  NewNoiseGeneratorFrom(root.SplitString("minecraft:terrain_detail")),
		veins:   NewVeinNoise(root),
		sampler: NewOreVeinSampler(ore),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Sampler exposes the generator's ore-vein sampler.
func (g *VeinGenerator) Sampler() *OreVeinSampler { return g.sampler }

// Noise exposes the seed-wide vein fields.
func (g *VeinGenerator) Noise() *VeinNoise { return g.veins }

func (g *VeinGenerator) Generate(chunkX, chunkZ int) *ChunkData {
	c := &ChunkData{}

	var heights [16][16]int
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			h := g.HeightAt(chunkX*16+x, chunkZ*16+z)
			heights[x][z] = h
			fillColumn(c, x, z, h)
		}
	}

	g.placeVeins(c, chunkX, chunkZ, &heights)
	return c
}

func (g *VeinGenerator) HeightAt(blockX, blockZ int) int {
	base := g.terrain.OctaveNoise2D(float64(blockX)/128, float64(blockZ)/128, 6, 0.5)
	detail := g.detail.OctaveNoise2D(float64(blockX)/32, float64(blockZ)/32, 3, 0.5)

	h := int(SeaLevel + base*24 + detail*4)
	return min(max(h, minSurface), maxSurface)
}

func fillColumn(c *ChunkData, x, z, height int) {
	c.SetBlock(x, bedrockY, z, block.Bedrock.DefaultState())
	for y := bedrockY + 1; y <= height-surfaceDepth; y++ {
		if y < 0 {
			c.SetBlock(x, y, z, block.Deepslate.DefaultState())
		} else {
			c.SetBlock(x, y, z, block.Stone.DefaultState())
		}
	}
	for y := height - surfaceDepth + 1; y < height; y++ {
		c.SetBlock(x, y, z, block.Dirt.DefaultState())
	}
	if height >= SeaLevel {
		c.SetBlock(x, height, z, block.GrassBlock.DefaultState())
		return
	}
	c.SetBlock(x, height, z, block.Dirt.DefaultState())
	for y := height + 1; y <= SeaLevel; y++ {
		c.SetBlock(x, y, z, block.Water.DefaultState())
	}
}

// placeVeins samples every host-rock voxel inside the vein band with a fresh
// router for this chunk.
func (g *VeinGenerator) placeVeins(c *ChunkData, chunkX, chunkZ int, heights *[16][16]int) {
	router := g.veins.NewRouter()
	opts := SampleOptions{Action: CellCaches}
	stone := block.Stone.DefaultState()
	deepslate := block.Deepslate.DefaultState()

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			top := min(heights[x][z], VeinMaxY)
			for y := VeinMinY; y <= top; y++ {
				cur := c.GetBlock(x, y, z)
				if cur != stone && cur != deepslate {
					continue
				}
				pos := BlockPos{int32(chunkX*16 + x), int32(y), int32(chunkZ*16 + z)}
				s := g.sampler.Sample(router, pos, opts)
				if s == nil {
					continue
				}
				c.SetBlock(x, y, z, s)
				if g.observer != nil {
					g.observer.VeinPlaced(pos, s)
				}
			}
		}
	}

	if g.observer != nil {
		g.observer.ChunkDone(ChunkPos{X: chunkX, Z: chunkZ}, router.Stats())
	}
}
