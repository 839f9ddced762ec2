package world

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

const flatTop = gen.MinY + 4

func TestWorldBaseStateFlatGenerator(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))

	if got := w.GetBlock(0, gen.MinY, 0); got != block.Bedrock.DefaultState() {
		t.Errorf("GetBlock(0,%d,0) = %s, want bedrock", gen.MinY, got)
	}
	if got := w.GetBlock(0, gen.MinY+1, 0); got != block.Stone.DefaultState() {
		t.Errorf("GetBlock(0,%d,0) = %s, want stone", gen.MinY+1, got)
	}
	if got := w.GetBlock(0, flatTop, 0); got != block.GrassBlock.DefaultState() {
		t.Errorf("GetBlock(0,%d,0) = %s, want grass", flatTop, got)
	}
	if got := w.GetBlock(5, 64, 10); got != block.Air.DefaultState() {
		t.Errorf("GetBlock(5,64,10) = %s, want air", got)
	}
	if got := w.GetBlock(-20, 1000, -3); got != block.Air.DefaultState() {
		t.Errorf("GetBlock above the world = %s, want air", got)
	}
}

func TestWorldSetBlock(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))

	w.SetBlock(3, 10, 5, block.Granite.DefaultState())
	if got := w.GetBlock(3, 10, 5); got != block.Granite.DefaultState() {
		t.Errorf("GetBlock(3,10,5) = %s, want granite", got)
	}

	// Break grass.
	w.SetBlock(0, flatTop, 0, block.Air.DefaultState())
	if got := w.GetBlock(0, flatTop, 0); got != block.Air.DefaultState() {
		t.Errorf("after break = %s, want air", got)
	}

	// Restoring grass removes the override.
	w.SetBlock(0, flatTop, 0, block.GrassBlock.DefaultState())
	if got := w.GetBlock(0, flatTop, 0); got != block.GrassBlock.DefaultState() {
		t.Errorf("after restore = %s, want grass", got)
	}
	assert.Equal(t, 1, w.OverrideCount())
}

func TestWorldSetBlockRemovesRedundantOverride(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))

	w.SetBlock(0, 10, 0, block.Air.DefaultState())

	w.mu.RLock()
	_, exists := w.blocks[BlockPos{0, 10, 0}]
	w.mu.RUnlock()
	if exists {
		t.Error("setting air at y=10 should not create an override")
	}
}

func TestWorldReplaceBlock(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	stone := block.Stone.DefaultState()
	air := block.Air.DefaultState()

	assert.False(t, w.ReplaceBlock(1, gen.MinY+1, 1, air, stone))
	assert.Same(t, stone, w.GetBlock(1, gen.MinY+1, 1))

	require.True(t, w.ReplaceBlock(1, gen.MinY+1, 1, stone, air))
	assert.Same(t, air, w.GetBlock(1, gen.MinY+1, 1))
	assert.False(t, w.ReplaceBlock(1, gen.MinY+1, 1, stone, air))

	// Restoring the generated block drops the override.
	require.True(t, w.ReplaceBlock(1, gen.MinY+1, 1, air, stone))
	assert.Zero(t, w.OverrideCount())
}

func TestWorldReplaceBlockConcurrent(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	stone := block.Stone.DefaultState()
	air := block.Air.DefaultState()

	var wins atomic.Int32
	done := make(chan struct{})
	for range 16 {
		go func() {
			defer func() { done <- struct{}{} }()
			if w.ReplaceBlock(2, gen.MinY+2, 2, stone, air) {
				wins.Add(1)
			}
		}()
	}
	for range 16 {
		<-done
	}
	assert.Equal(t, int32(1), wins.Load())
}

func TestWorldNegativeCoordinates(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	w.SetBlock(-1, 0, -17, block.Tuff.DefaultState())
	assert.Same(t, block.Tuff.DefaultState(), w.GetBlock(-1, 0, -17))
	assert.Same(t, block.Air.DefaultState(), w.GetBlock(-1, 0, -16))
}

func TestWorldLoadOverrides(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	w.SetBlock(1, 1, 1, block.Water.DefaultState())

	w.LoadOverrides(map[BlockPos]*block.State{
		{X: 2, Y: 2, Z: 2}: block.Dirt.DefaultState(),
	})
	assert.Same(t, block.Air.DefaultState(), w.GetBlock(1, 1, 1))
	assert.Same(t, block.Dirt.DefaultState(), w.GetBlock(2, 2, 2))

	var n int
	w.ForEachOverride(func(BlockPos, *block.State) { n++ })
	assert.Equal(t, 1, n)
}

func TestWorldSpawnHeight(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	if got := w.SpawnHeight(); got != flatTop+1 {
		t.Errorf("SpawnHeight() = %d, want %d", got, flatTop+1)
	}
}

func TestPreGenerateRadius(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	count, err := w.PreGenerateRadius(context.Background(), 2, 4)
	require.NoError(t, err)

	// Radius 2 → 5×5 = 25 chunks.
	if count != 25 {
		t.Errorf("PreGenerateRadius(2) returned %d, want 25", count)
	}

	for cx := -2; cx <= 2; cx++ {
		for cz := -2; cz <= 2; cz++ {
			pos := gen.ChunkPos{X: cx, Z: cz}
			w.mu.RLock()
			_, ok := w.chunks[pos]
			w.mu.RUnlock()
			if !ok {
				t.Errorf("chunk (%d,%d) not pre-generated", cx, cz)
			}
		}
	}

	// Already cached chunks are not counted again.
	count, err = w.PreGenerateRadius(context.Background(), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 49-25, count)
	assert.Equal(t, 49, w.ChunkCount())
}

type countingGenerator struct {
	gen.Generator
	calls atomic.Int32
}

func (g *countingGenerator) Generate(cx, cz int) *gen.ChunkData {
	g.calls.Add(1)
	return g.Generator.Generate(cx, cz)
}

func TestPreGenerateRadiusCancelled(t *testing.T) {
	g := &countingGenerator{Generator: gen.NewFlatGenerator(0)}
	w := NewWorld(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.PreGenerateRadius(ctx, 4, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, int(g.calls.Load()), 81)
}

func TestPreGenerateRadiusInvalid(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	_, err := w.PreGenerateRadius(context.Background(), -1, 1)
	assert.Error(t, err)

	// Zero workers still makes progress.
	n, err := w.PreGenerateRadius(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPreGenerateVeinWorld(t *testing.T) {
	w := NewWorld(gen.NewVeinGenerator(0, false))
	n, err := w.PreGenerateRadius(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestWorldCensus(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))
	w.SetBlock(0, 0, 0, block.CopperOre.DefaultState())
	w.SetBlock(0, gen.MinY+1, 0, block.Granite.DefaultState())
	w.SetBlock(500, 0, 500, block.Tuff.DefaultState()) // outside radius

	c, err := w.Census(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Chunks)

	const perLayer = 9 * 256
	assert.Equal(t, perLayer, c.Counts[block.Bedrock.DefaultState()])
	assert.Equal(t, 2*perLayer-1, c.Counts[block.Stone.DefaultState()])
	assert.Equal(t, 1, c.Counts[block.CopperOre.DefaultState()])
	assert.Equal(t, 1, c.Counts[block.Granite.DefaultState()])
	assert.Zero(t, c.Counts[block.Tuff.DefaultState()])

	total := 0
	for _, n := range c.Counts {
		total += n
	}
	assert.Equal(t, 9*16*16*gen.Height, total)

	rows := c.Sorted()
	require.NotEmpty(t, rows)
	assert.Same(t, block.Air.DefaultState(), rows[0].State)
}

func TestWorldTick(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))

	age, tod := w.GetTime()
	if age != 0 || tod != 0 {
		t.Errorf("initial time = (%d, %d), want (0, 0)", age, tod)
	}

	age, tod = w.Tick()
	if age != 1 || tod != 1 {
		t.Errorf("after 1 tick = (%d, %d), want (1, 1)", age, tod)
	}

	w.SetTime(100, 23999)
	age, tod = w.Tick()
	if age != 101 || tod != 0 {
		t.Errorf("after wrap = (%d, %d), want (101, 0)", age, tod)
	}
}

func TestWorldTickFrozenTime(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))

	w.SetTimeOfDay(-6000)
	_, tod := w.GetTime()
	if tod != -6000 {
		t.Errorf("frozen time = %d, want -6000", tod)
	}

	age, tod := w.Tick()
	if age != 1 || tod != -6000 {
		t.Errorf("after tick with frozen time = (%d, %d), want (1, -6000)", age, tod)
	}
}

func TestWorldGetSetTime(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0))

	w.SetTime(5000, 12000)
	age, tod := w.GetTime()
	if age != 5000 || tod != 12000 {
		t.Errorf("GetTime() = (%d, %d), want (5000, 12000)", age, tod)
	}

	w.SetTimeOfDay(18000)
	age, tod = w.GetTime()
	if age != 5000 || tod != 18000 {
		t.Errorf("after SetTimeOfDay = (%d, %d), want (5000, 18000)", age, tod)
	}
}
