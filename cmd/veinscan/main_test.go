package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-craft/oreveins/internal/server/world"
	"github.com/go-theft-craft/oreveins/internal/server/world/block"
)

func TestBuildReport(t *testing.T) {
	c := world.Census{
		Chunks: 1,
		Counts: map[*block.State]int{
			block.Stone.DefaultState():     3,
			block.CopperOre.DefaultState(): 1,
		},
	}
	rep := buildReport(c, 5, true, 0)
	require.Len(t, rep.Blocks, 2)
	assert.Equal(t, "minecraft:stone", rep.Blocks[0].Block)
	assert.InDelta(t, 0.75, rep.Blocks[0].Share, 1e-9)
	assert.Equal(t, "minecraft:copper_ore", rep.Blocks[1].Block)

	var out bytes.Buffer
	require.NoError(t, writeTable(&out, rep))
	assert.Contains(t, out.String(), "minecraft:copper_ore")
	assert.Contains(t, out.String(), "25.0000%")
}
