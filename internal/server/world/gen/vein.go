package gen

import "github.com/go-theft-craft/oreveins/internal/server/world/block"

// VeinType describes one kind of large ore vein and the y band it occupies,
// both ends inclusive.
type VeinType struct {
	Name   string
	Ore    *block.Block
	RawOre *block.Block
	Stone  *block.Block
	MinY   int32
	MaxY   int32
}

var (
	Copper = VeinType{
		Name:   "copper",
		Ore:    block.CopperOre,
		RawOre: block.RawCopperBlock,
		Stone:  block.Granite,
		MinY:   0,
		MaxY:   50,
	}
	Iron = VeinType{
		Name:   "iron",
		Ore:    block.DeepslateIronOre,
		RawOre: block.RawIronBlock,
		Stone:  block.Tuff,
		MinY:   -60,
		MaxY:   -8,
	}
)

// Adding a vein type changes every generated world.
const (
	VeinMinY = -60 // Iron.MinY
	VeinMaxY = 50  // Copper.MaxY
)

// Contains reports whether s is one of the vein's three states.
func (v *VeinType) Contains(s *block.State) bool {
	return s == v.Ore.DefaultState() || s == v.RawOre.DefaultState() || s == v.Stone.DefaultState()
}
