// Package block holds the process-wide block handles used by world
// generation. Handles are created once at package init and compared by
// identity.
package block

import "strings"

// Block is a block type. Only the default state of each block is modelled.
type Block struct {
	name  string
	state *State
}

// State is a block state handle. Two states are equal iff they are the same
// pointer.
type State struct {
	block *Block
	index uint16
}

var (
	states []*State
	byName = map[string]*Block{}
)

// Air is registered first so that a zeroed chunk section reads as air.
var (
	Air              = register("minecraft:air")
	Stone            = register("minecraft:stone")
	Deepslate        = register("minecraft:deepslate")
	Granite          = register("minecraft:granite")
	Tuff             = register("minecraft:tuff")
	CopperOre        = register("minecraft:copper_ore")
	RawCopperBlock   = register("minecraft:raw_copper_block")
	DeepslateIronOre = register("minecraft:deepslate_iron_ore")
	RawIronBlock     = register("minecraft:raw_iron_block")
	Bedrock          = register("minecraft:bedrock")
	Dirt             = register("minecraft:dirt")
	GrassBlock       = register("minecraft:grass_block")
	Water            = register("minecraft:water")
)

func register(name string) *Block {
	b := &Block{name: name}
	b.state = &State{block: b, index: uint16(len(states))}
	states = append(states, b.state)
	byName[name] = b
	return b
}

// Name returns the namespaced identifier, e.g. "minecraft:stone".
func (b *Block) Name() string { return b.name }

func (b *Block) DefaultState() *State { return b.state }

func (b *Block) String() string { return b.name }

func (s *State) Block() *Block { return s.block }

// Index is the state's position in the server's own state table. Chunk
// sections store these indices.
func (s *State) Index() uint16 { return s.index }

func (s *State) String() string { return s.block.name }

// ByName finds a block by identifier. The "minecraft:" namespace is assumed
// when name has none.
func ByName(name string) (*Block, bool) {
	if !strings.Contains(name, ":") {
		name = "minecraft:" + name
	}
	b, ok := byName[name]
	return b, ok
}

// StateByIndex returns the state with the given index, or nil.
func StateByIndex(i uint16) *State {
	if int(i) >= len(states) {
		return nil
	}
	return states[i]
}

// All returns every registered block in index order.
func All() []*Block {
	out := make([]*Block, len(states))
	for i, s := range states {
		out[i] = s.block
	}
	return out
}
