package gen

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/go-theft-craft/oreveins/pkg/mathutil"
	"github.com/go-theft-craft/oreveins/pkg/random"
)

const (
	toggleScale     = 1.0 / 48
	toggleAmplitude = 1.5
	ridgedScale     = 1.0 / 32
	gapScale        = 1.0 / 32

	// perlin.Noise3D degrades to 2D for negative z, so its inputs are
	// shifted to stay positive across the whole world.
	perlinOffset = 1 << 20

	ridgedOffset = -0.08

	// Vein fields are only evaluated in [bandMin, bandMax).
	bandMin = VeinMinY
	bandMax = VeinMaxY + 1

	cellWidth  = 4
	cellHeight = 8
)

// VeinNoise holds the seed-wide noise fields behind the vein router. It is
// immutable and shared by every chunk of a world.
type VeinNoise struct {
	toggle *perlin.Perlin
	gap    *perlin.Perlin
	ridgeA *NoiseGenerator
	ridgeB *NoiseGenerator
}

// NewVeinNoise seeds each field from its own named split of the world's root
// deriver.
func NewVeinNoise(root random.Deriver) *VeinNoise {
	return &VeinNoise{
		toggle: perlin.NewPerlin(2, 2, 3, root.SplitString("minecraft:ore_veininess").NextInt64()),
		gap:    perlin.NewPerlin(2, 2, 2, root.SplitString("minecraft:ore_gap").NextInt64()),
		ridgeA: NewNoiseGeneratorFrom(root.SplitString("minecraft:ore_vein_a")),
		ridgeB: NewNoiseGeneratorFrom(root.SplitString("minecraft:ore_vein_b")),
	}
}

func inBand(y int32) bool {
	return y >= bandMin && y < bandMax
}

// Toggle is the raw veininess field. Its sign picks the vein type.
func (n *VeinNoise) Toggle(x, y, z int32) float64 {
	if !inBand(y) {
		return 0
	}
	return toggleAmplitude * perlin3(n.toggle, x, y, z, toggleScale)
}

// Ridged is negative along the thin sheets where veins form.
func (n *VeinNoise) Ridged(x, y, z int32) float64 {
	if !inBand(y) {
		return ridgedOffset
	}
	fx, fy, fz := float64(x)*ridgedScale, float64(y)*ridgedScale, float64(z)*ridgedScale
	a := n.ridgeA.Noise3D(fx, fy, fz)
	b := n.ridgeB.Noise3D(fx, fy, fz)
	return math.Max(math.Abs(a), math.Abs(b)) + ridgedOffset
}

// Gap punches holes in the ore sheets.
func (n *VeinNoise) Gap(x, y, z int32) float64 {
	if !inBand(y) {
		return 0
	}
	return perlin3(n.gap, x, y, z, gapScale)
}

func perlin3(p *perlin.Perlin, x, y, z int32, scale float64) float64 {
	return p.Noise3D(
		float64(x)*scale+perlinOffset,
		float64(y)*scale+perlinOffset,
		float64(z)*scale+perlinOffset,
	)
}

// RouterStats counts cell cache traffic of one router.
type RouterStats struct {
	Hits   int
	Misses int
}

// VeinNoiseRouter is the ChunkNoiseRouter the vein generator uses. The
// toggle field is interpolated from cell corners; corner values are memoized
// for the life of the router when the caller asks for cell caches.
type VeinNoiseRouter struct {
	noise   *VeinNoise
	corners map[BlockPos]float64
	stats   RouterStats
}

// NewRouter returns a router for one chunk.
func (n *VeinNoise) NewRouter() *VeinNoiseRouter {
	return &VeinNoiseRouter{noise: n, corners: make(map[BlockPos]float64)}
}

func (r *VeinNoiseRouter) Stats() RouterStats { return r.stats }

func (r *VeinNoiseRouter) corner(x, y, z int32, cached bool) float64 {
	if !cached {
		return r.noise.Toggle(x, y, z)
	}
	key := BlockPos{x, y, z}
	if v, ok := r.corners[key]; ok {
		r.stats.Hits++
		return v
	}
	r.stats.Misses++
	v := r.noise.Toggle(x, y, z)
	r.corners[key] = v
	return v
}

func (r *VeinNoiseRouter) VeinToggle(pos NoisePos, opts SampleOptions) float64 {
	x, y, z := pos.X(), pos.Y(), pos.Z()
	if !inBand(y) {
		return 0
	}
	cached := opts.Action == CellCaches

	x0 := mathutil.FloorDiv(x, cellWidth) * cellWidth
	y0 := mathutil.FloorDiv(y, cellHeight) * cellHeight
	z0 := mathutil.FloorDiv(z, cellWidth) * cellWidth
	tx := float64(x-x0) / cellWidth
	ty := float64(y-y0) / cellHeight
	tz := float64(z-z0) / cellWidth

	x1, y1, z1 := x0+cellWidth, y0+cellHeight, z0+cellWidth
	c000 := r.corner(x0, y0, z0, cached)
	c100 := r.corner(x1, y0, z0, cached)
	c010 := r.corner(x0, y1, z0, cached)
	c110 := r.corner(x1, y1, z0, cached)
	c001 := r.corner(x0, y0, z1, cached)
	c101 := r.corner(x1, y0, z1, cached)
	c011 := r.corner(x0, y1, z1, cached)
	c111 := r.corner(x1, y1, z1, cached)

	return mathutil.Lerp(tz,
		mathutil.Lerp(ty, mathutil.Lerp(tx, c000, c100), mathutil.Lerp(tx, c010, c110)),
		mathutil.Lerp(ty, mathutil.Lerp(tx, c001, c101), mathutil.Lerp(tx, c011, c111)),
	)
}

func (r *VeinNoiseRouter) VeinRidged(pos NoisePos, _ SampleOptions) float64 {
	return r.noise.Ridged(pos.X(), pos.Y(), pos.Z())
}

func (r *VeinNoiseRouter) VeinGap(pos NoisePos, _ SampleOptions) float64 {
	return r.noise.Gap(pos.X(), pos.Y(), pos.Z())
}
