package gen

import "github.com/go-theft-craft/oreveins/internal/server/world/block"

// flatLayers is the superflat column from the bottom of the world up.
var flatLayers = []*block.Block{
	block.Bedrock,
	block.Stone,
	block.Stone,
	block.Dirt,
	block.GrassBlock,
}

// FlatGenerator generates a classic superflat world starting at MinY.
type FlatGenerator struct{}

func NewFlatGenerator(_ int64) *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) Generate(_, _ int) *ChunkData {
	c := &ChunkData{}
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for i, b := range flatLayers {
				c.SetBlock(x, MinY+i, z, b.DefaultState())
			}
		}
	}
	return c
}

// HeightAt returns the y of the grass layer.
func (g *FlatGenerator) HeightAt(_, _ int) int {
	return MinY + len(flatLayers) - 1
}
