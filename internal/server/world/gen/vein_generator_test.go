package gen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
)

type recordingObserver struct {
	mu     sync.Mutex
	placed map[BlockPos]*block.State
	chunks map[ChunkPos]RouterStats
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		placed: make(map[BlockPos]*block.State),
		chunks: make(map[ChunkPos]RouterStats),
	}
}

func (o *recordingObserver) VeinPlaced(pos BlockPos, s *block.State) {
	o.mu.Lock()
	o.placed[pos] = s
	o.mu.Unlock()
}

func (o *recordingObserver) ChunkDone(pos ChunkPos, stats RouterStats) {
	o.mu.Lock()
	o.chunks[pos] = stats
	o.mu.Unlock()
}

func TestVeinGeneratorDeterministic(t *testing.T) {
	g1 := NewVeinGenerator(42, false)
	g2 := NewVeinGenerator(42, false)

	c1 := g1.Generate(3, -2)
	c2 := g2.Generate(3, -2)

	for i, sec := range c1.Sections {
		if (sec == nil) != (c2.Sections[i] == nil) {
			t.Fatalf("section %d nil mismatch", i)
		}
		if sec != nil && sec.Blocks != c2.Sections[i].Blocks {
			t.Fatalf("section %d blocks differ", i)
		}
	}
}

func TestVeinGeneratorDifferentSeeds(t *testing.T) {
	c1 := NewVeinGenerator(1, false).Generate(0, 0)
	c2 := NewVeinGenerator(2, false).Generate(0, 0)

	different := false
	for i := range c1.Sections {
		if c1.Sections[i] == nil || c2.Sections[i] == nil {
			continue
		}
		if c1.Sections[i].Blocks != c2.Sections[i].Blocks {
			different = true
			break
		}
	}
	if !different {
		t.Error("different seeds should produce different terrain")
	}
}

func TestVeinGeneratorColumn(t *testing.T) {
	g := NewVeinGenerator(12345, false)
	c := g.Generate(0, 0)

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			if got := c.GetBlock(x, MinY, z); got != block.Bedrock.DefaultState() {
				t.Fatalf("block at (%d,%d,%d) = %s, want bedrock", x, MinY, z, got)
			}
			h := g.HeightAt(x, z)
			if h < minSurface || h > maxSurface {
				t.Fatalf("HeightAt(%d,%d) = %d, out of range", x, z, h)
			}
			if got := c.GetBlock(x, h+1, z); got != block.Air.DefaultState() && got != block.Water.DefaultState() {
				t.Fatalf("above surface at (%d,%d,%d) = %s", x, h+1, z, got)
			}
		}
	}
}

func TestVeinGeneratorHostRock(t *testing.T) {
	g := NewVeinGenerator(7, false)
	c := g.Generate(0, 0)

	// Deepslate below zero, stone above, wherever no vein replaced it.
	for y := MinY + 1; y < 0; y++ {
		got := c.GetBlock(5, y, 5)
		assert.Falsef(t, got == block.Stone.DefaultState(), "stone at y=%d", y)
	}
	assert.NotEqual(t, block.Deepslate.DefaultState(), c.GetBlock(5, 10, 5))
}

func TestVeinGeneratorPlacesVeins(t *testing.T) {
	obs := newRecordingObserver()
	g := NewVeinGenerator(0, false, WithObserver(obs))

	for cx := -3; cx <= 3; cx++ {
		for cz := -3; cz <= 3; cz++ {
			g.Generate(cx, cz)
		}
	}

	require.Len(t, obs.chunks, 49)
	require.NotEmpty(t, obs.placed, "no vein voxels in 49 chunks")

	for pos, s := range obs.placed {
		y := pos.Y()
		require.True(t, y >= VeinMinY && y <= VeinMaxY, "vein voxel at y=%d", y)
		if Copper.Contains(s) {
			assert.GreaterOrEqual(t, y, Copper.MinY)
		} else {
			require.True(t, Iron.Contains(s), "unexpected state %s", s)
			assert.LessOrEqual(t, y, Iron.MaxY)
		}
	}

	for pos, stats := range obs.chunks {
		assert.Positivef(t, stats.Misses, "chunk %v never sampled the toggle", pos)
		assert.Positivef(t, stats.Hits, "chunk %v never reused a cell corner", pos)
	}
}

func TestVeinGeneratorMatchesSampler(t *testing.T) {
	obs := newRecordingObserver()
	g := NewVeinGenerator(99, false, WithObserver(obs))
	c := g.Generate(1, 1)

	// Every observed placement is in the chunk, and a fresh router without
	// cell caches reproduces it.
	router := g.Noise().NewRouter()
	for pos, s := range obs.placed {
		lx, lz := int(pos.X())-16, int(pos.Z())-16
		assert.Same(t, s, c.GetBlock(lx, int(pos.Y()), lz))
		assert.Same(t, s, g.Sampler().Sample(router, pos, SampleOptions{}))
	}
	assert.Zero(t, router.Stats().Hits+router.Stats().Misses)
}

func TestVeinGeneratorConcurrent(t *testing.T) {
	g := NewVeinGenerator(5, false)
	want := g.Generate(2, 2)

	var wg sync.WaitGroup
	results := make([]*ChunkData, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Generate(2, 2)
		}(i)
	}
	wg.Wait()

	for i, c := range results {
		for s := range c.Sections {
			if (c.Sections[s] == nil) != (want.Sections[s] == nil) {
				t.Fatalf("worker %d section %d nil mismatch", i, s)
			}
			if c.Sections[s] != nil && c.Sections[s].Blocks != want.Sections[s].Blocks {
				t.Fatalf("worker %d section %d differs", i, s)
			}
		}
	}
}

func TestLegacyVeinGenerator(t *testing.T) {
	a := NewVeinGenerator(3, true).Generate(0, 0)
	b := NewVeinGenerator(3, false).Generate(0, 0)
	// Terrain is shared, only the ore deriver differs.
	assert.Equal(t, a.Count(block.Bedrock.DefaultState()), b.Count(block.Bedrock.DefaultState()))
}

func TestFlatGeneratorLayers(t *testing.T) {
	g := NewFlatGenerator(0)
	c := g.Generate(0, 0)

	tests := []struct {
		y     int
		block *block.Block
	}{
		{MinY, block.Bedrock},
		{MinY + 1, block.Stone},
		{MinY + 2, block.Stone},
		{MinY + 3, block.Dirt},
		{MinY + 4, block.GrassBlock},
		{MinY + 5, block.Air},
		{64, block.Air},
	}
	for _, tt := range tests {
		if got := c.GetBlock(0, tt.y, 0); got != tt.block.DefaultState() {
			t.Errorf("y=%d: got %s, want %s", tt.y, got, tt.block)
		}
	}
	if got := g.HeightAt(0, 0); got != MinY+4 {
		t.Errorf("HeightAt = %d, want %d", got, MinY+4)
	}
}

func TestChunkDataBounds(t *testing.T) {
	c := &ChunkData{}
	c.SetBlock(0, MinY-1, 0, block.Stone.DefaultState())
	c.SetBlock(0, MinY+Height, 0, block.Stone.DefaultState())
	assert.Equal(t, block.Air.DefaultState(), c.GetBlock(0, MinY-1, 0))

	c.SetBlock(15, MinY+Height-1, 15, block.Water.DefaultState())
	assert.Same(t, block.Water.DefaultState(), c.GetBlock(15, MinY+Height-1, 15))
	assert.Equal(t, 1, c.Count(block.Water.DefaultState()))

	// Writing air into an empty section does not allocate it.
	c.SetBlock(0, 0, 0, block.Air.DefaultState())
	assert.Nil(t, c.Sections[(0-MinY)>>4])
}
