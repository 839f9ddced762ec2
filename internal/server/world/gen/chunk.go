package gen

import "github.com/go-theft-craft/oreveins/internal/server/world/block"

const (
	// MinY is the lowest block row of a chunk column.
	MinY = -64
	// Height is the number of block rows in a chunk column.
	Height       = 384
	SectionCount = Height / 16
)

// ChunkPos identifies a chunk by its X and Z coordinates.
type ChunkPos struct{ X, Z int }

// Section holds block data for a 16×16×16 vertical slice of a chunk.
// Index = y*256 + z*16 + x, value = block.State index.
type Section struct {
	Blocks [4096]uint16
}

// ChunkData holds the generated terrain for one chunk column.
type ChunkData struct {
	Sections [SectionCount]*Section // nil = all-air
}

// InRange reports whether world y lies inside a chunk column.
func InRange(y int) bool {
	return y >= MinY && y < MinY+Height
}

// SetBlock sets a block state at local x, z and world y. Positions outside
// the column are ignored.
func (c *ChunkData) SetBlock(x, y, z int, s *block.State) {
	if !InRange(y) {
		return
	}
	ry := y - MinY
	sec := ry >> 4
	if c.Sections[sec] == nil {
		if s.Index() == 0 {
			return
		}
		c.Sections[sec] = &Section{}
	}
	c.Sections[sec].Blocks[(ry&0xF)*256+z*16+x] = s.Index()
}

// GetBlock returns the block state at local x, z and world y. Air is
// returned outside the column.
func (c *ChunkData) GetBlock(x, y, z int) *block.State {
	if !InRange(y) {
		return block.Air.DefaultState()
	}
	ry := y - MinY
	sec := c.Sections[ry>>4]
	if sec == nil {
		return block.Air.DefaultState()
	}
	if s := block.StateByIndex(sec.Blocks[(ry&0xF)*256+z*16+x]); s != nil {
		return s
	}
	return block.Air.DefaultState()
}

// Count returns how many voxels of the column hold s.
func (c *ChunkData) Count(s *block.State) int {
	n := 0
	for _, sec := range c.Sections {
		if sec == nil {
			if s.Index() == 0 {
				n += 4096
			}
			continue
		}
		for _, v := range sec.Blocks {
			if v == s.Index() {
				n++
			}
		}
	}
	return n
}

// Generator produces chunk data deterministically from a seed.
// Implementations must be safe for concurrent Generate calls.
type Generator interface {
	Generate(chunkX, chunkZ int) *ChunkData
	HeightAt(blockX, blockZ int) int
}
