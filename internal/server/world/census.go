package world

import (
	"context"
	"sort"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

// Census counts block states in a square of chunks.
type Census struct {
	Chunks int
	Counts map[*block.State]int
}

// Entry is one row of a sorted census.
type Entry struct {
	State *block.State
	Count int
}

// Sorted returns the census rows by descending count, ties by name.
func (c Census) Sorted() []Entry {
	out := make([]Entry, 0, len(c.Counts))
	for s, n := range c.Counts {
		out = append(out, Entry{State: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State.String() < out[j].State.String()
	})
	return out
}

// Census generates the chunks within radius of the origin and counts every
// state in them, with overrides applied.
func (w *World) Census(ctx context.Context, radius, workers int) (Census, error) {
	if _, err := w.PreGenerateRadius(ctx, radius, workers); err != nil {
		return Census{}, err
	}

	out := Census{Counts: make(map[*block.State]int)}
	for cx := -radius; cx <= radius; cx++ {
		for cz := -radius; cz <= radius; cz++ {
			countChunk(out.Counts, w.GetOrGenerateChunk(cx, cz))
			out.Chunks++
		}
	}

	minX, maxX := -radius*16, radius*16+15
	overrides := make(map[BlockPos]*block.State)
	w.ForEachOverride(func(pos BlockPos, s *block.State) {
		if pos.X < minX || pos.X > maxX || pos.Z < minX || pos.Z > maxX || !gen.InRange(pos.Y) {
			return
		}
		overrides[pos] = s
	})
	for pos, s := range overrides {
		base := w.GetOrGenerateChunk(pos.X>>4, pos.Z>>4).GetBlock(pos.X&0xF, pos.Y, pos.Z&0xF)
		out.Counts[base]--
		out.Counts[s]++
	}
	for s, n := range out.Counts {
		if n == 0 {
			delete(out.Counts, s)
		}
	}
	return out, nil
}

func countChunk(counts map[*block.State]int, c *gen.ChunkData) {
	air := block.Air.DefaultState()
	for _, sec := range c.Sections {
		if sec == nil {
			counts[air] += 4096
			continue
		}
		for _, v := range sec.Blocks {
			if s := block.StateByIndex(v); s != nil {
				counts[s]++
			}
		}
	}
}
