package world

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

const ticksPerDay = 24000

// BlockPos represents a block position in the world.
type BlockPos struct {
	X, Y, Z int
}

// World tracks block state with a generator for base terrain and overrides for player modifications.
type World struct {
	mu        sync.RWMutex
	blocks    map[BlockPos]*block.State
	generator gen.Generator
	chunks    map[gen.ChunkPos]*gen.ChunkData

	timeMu    sync.Mutex
	age       int64
	timeOfDay int64
}

// NewWorld creates a new World with the given generator.
func NewWorld(generator gen.Generator) *World {
	return &World{
		blocks:    make(map[BlockPos]*block.State),
		generator: generator,
		chunks:    make(map[gen.ChunkPos]*gen.ChunkData),
	}
}

// Generator returns the terrain generator backing the world.
func (w *World) Generator() gen.Generator { return w.generator }

// GetOrGenerateChunk returns the ChunkData for the given chunk coordinates,
// generating and caching it if needed.
func (w *World) GetOrGenerateChunk(cx, cz int) *gen.ChunkData {
	c, _ := w.getOrGenerate(cx, cz)
	return c
}

// getOrGenerate also reports whether this call generated the chunk.
func (w *World) getOrGenerate(cx, cz int) (*gen.ChunkData, bool) {
	pos := gen.ChunkPos{X: cx, Z: cz}

	w.mu.RLock()
	if c, ok := w.chunks[pos]; ok {
		w.mu.RUnlock()
		return c, false
	}
	w.mu.RUnlock()

	c := w.generator.Generate(cx, cz)

	w.mu.Lock()
	// Double-check after acquiring write lock.
	if existing, ok := w.chunks[pos]; ok {
		w.mu.Unlock()
		return existing, false
	}
	w.chunks[pos] = c
	w.mu.Unlock()
	return c, true
}

// ChunkCount returns how many chunks are cached.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// GetBlock returns the block state at the given position.
// Checks overrides first, then falls back to the generated chunk.
func (w *World) GetBlock(x, y, z int) *block.State {
	w.mu.RLock()
	if s, ok := w.blocks[BlockPos{x, y, z}]; ok {
		w.mu.RUnlock()
		return s
	}
	w.mu.RUnlock()

	c := w.GetOrGenerateChunk(x>>4, z>>4)
	return c.GetBlock(x&0xF, y, z&0xF)
}

// SetBlock stores a block state override. Setting a position back to its
// generated state drops the override.
func (w *World) SetBlock(x, y, z int, s *block.State) {
	c := w.GetOrGenerateChunk(x>>4, z>>4)
	base := c.GetBlock(x&0xF, y, z&0xF)

	w.mu.Lock()
	defer w.mu.Unlock()

	bpos := BlockPos{x, y, z}
	if s == base {
		delete(w.blocks, bpos)
	} else {
		w.blocks[bpos] = s
	}
}

// ReplaceBlock sets the block at the given position to s only if it is
// currently old, and reports whether it did.
func (w *World) ReplaceBlock(x, y, z int, old, s *block.State) bool {
	c := w.GetOrGenerateChunk(x>>4, z>>4)
	base := c.GetBlock(x&0xF, y, z&0xF)

	w.mu.Lock()
	defer w.mu.Unlock()

	bpos := BlockPos{x, y, z}
	cur, ok := w.blocks[bpos]
	if !ok {
		cur = base
	}
	if cur != old {
		return false
	}
	if s == base {
		delete(w.blocks, bpos)
	} else {
		w.blocks[bpos] = s
	}
	return true
}

// ForEachOverride calls fn for every block override under a read lock.
func (w *World) ForEachOverride(fn func(pos BlockPos, s *block.State)) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for pos, s := range w.blocks {
		fn(pos, s)
	}
}

// LoadOverrides replaces all overrides, e.g. from a saved snapshot.
func (w *World) LoadOverrides(overrides map[BlockPos]*block.State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.blocks = make(map[BlockPos]*block.State, len(overrides))
	for pos, s := range overrides {
		w.blocks[pos] = s
	}
}

// OverrideCount returns the number of stored overrides.
func (w *World) OverrideCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.blocks)
}

// SpawnHeight returns the terrain height at spawn (0, 0) + 1 for the player to stand on.
func (w *World) SpawnHeight() int {
	return w.generator.HeightAt(0, 0) + 1
}

// PreGenerateRadius generates every chunk within radius of the origin on up
// to workers goroutines and returns how many chunks this call generated.
// Cancelling ctx stops scheduling further chunks.
func (w *World) PreGenerateRadius(ctx context.Context, radius, workers int) (int, error) {
	if radius < 0 {
		return 0, fmt.Errorf("pregenerate: negative radius %d", radius)
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu        sync.Mutex
		generated int
	)
	for cx := -radius; cx <= radius; cx++ {
		for cz := -radius; cz <= radius; cz++ {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if _, fresh := w.getOrGenerate(cx, cz); fresh {
					mu.Lock()
					generated++
					mu.Unlock()
				}
				return nil
			})
		}
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return generated, fmt.Errorf("pregenerate: %w", err)
	}
	return generated, nil
}

// Tick advances world age by one and the time of day unless it is frozen
// (negative).
func (w *World) Tick() (age, timeOfDay int64) {
	w.timeMu.Lock()
	defer w.timeMu.Unlock()

	w.age++
	if w.timeOfDay >= 0 {
		w.timeOfDay = (w.timeOfDay + 1) % ticksPerDay
	}
	return w.age, w.timeOfDay
}

func (w *World) GetTime() (age, timeOfDay int64) {
	w.timeMu.Lock()
	defer w.timeMu.Unlock()
	return w.age, w.timeOfDay
}

func (w *World) SetTime(age, timeOfDay int64) {
	w.timeMu.Lock()
	defer w.timeMu.Unlock()
	w.age, w.timeOfDay = age, timeOfDay
}

// SetTimeOfDay sets the daytime. A negative value freezes the clock.
func (w *World) SetTimeOfDay(timeOfDay int64) {
	w.timeMu.Lock()
	defer w.timeMu.Unlock()
	w.timeOfDay = timeOfDay
}
