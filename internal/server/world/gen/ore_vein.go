package gen

import (
	"math"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/pkg/mathutil"
	"github.com/go-theft-craft/oreveins/pkg/random"
)

// Thresholds are single-precision values widened to double; world parity
// depends on the widened bit patterns.
const (
	veinThreshold       = float64(float32(0.4))
	veinRichnessMin     = float64(float32(0.4))
	veinRichnessMax     = float64(float32(0.6))
	veinRichnessFloor   = float64(float32(0.1))
	veinRichnessCeiling = float64(float32(0.3))
	veinSolidness       = float32(0.7)
	rawOreChance        = float32(0.02)
	veinGapThreshold    = float64(float32(-0.3))

	edgeRoundoffBegin = 20.0
	edgeRoundoffFloor = -0.2
)

// OreVeinSampler decides which voxels of a chunk become part of a large ore
// vein. It is immutable and safe for concurrent use; the router passed to
// Sample is not.
type OreVeinSampler struct {
	deriver random.Deriver
}

func NewOreVeinSampler(deriver random.Deriver) *OreVeinSampler {
	return &OreVeinSampler{deriver: deriver}
}

// Sample returns the state that replaces the voxel at pos, or nil to leave
// it alone.
func (s *OreVeinSampler) Sample(router ChunkNoiseRouter, pos NoisePos, opts SampleOptions) *block.State {
	toggle := router.VeinToggle(pos, opts)
	vein := selectVein(toggle)

	y := pos.Y()
	maxToY := vein.MaxY - y
	yToMin := y - vein.MinY
	if maxToY < 0 || yToMin < 0 {
		return nil
	}

	closest := min(maxToY, yToMin)
	mappedDiff := mathutil.ClampedMap(float64(closest), 0, edgeRoundoffBegin, edgeRoundoffFloor, 0)
	absSample := math.Abs(toggle)
	if absSample+mappedDiff < veinThreshold {
		return nil
	}

	rng := s.deriver.SplitPos(pos.X(), y, pos.Z())
	// r1 is drawn before the ridged query.
	if rng.NextFloat32() > veinSolidness {
		return nil
	}
	if router.VeinRidged(pos, opts) >= 0 {
		return nil
	}

	richness := mathutil.ClampedMap(absSample, veinRichnessMin, veinRichnessMax, veinRichnessFloor, veinRichnessCeiling)
	gap := router.VeinGap(pos, opts)
	if float64(rng.NextFloat32()) < richness && gap > veinGapThreshold {
		if rng.NextFloat32() < rawOreChance {
			return vein.RawOre.DefaultState()
		}
		return vein.Ore.DefaultState()
	}
	return vein.Stone.DefaultState()
}

// selectVein maps the toggle's sign to a vein. Zero is iron.
func selectVein(toggle float64) *VeinType {
	if toggle > 0 {
		return &Copper
	}
	return &Iron
}
