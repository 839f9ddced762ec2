package gen

// NoisePos is anything exposing integer world coordinates.
type NoisePos interface {
	X() int32
	Y() int32
	Z() int32
}

// BlockPos is the plain NoisePos used by the chunk generator.
type BlockPos [3]int32

func (p BlockPos) X() int32 { return p[0] }
func (p BlockPos) Y() int32 { return p[1] }
func (p BlockPos) Z() int32 { return p[2] }

// SampleAction selects whether a router may consult its cell caches.
type SampleAction uint8

const (
	SkipCellCaches SampleAction = iota
	CellCaches
)

func (a SampleAction) String() string {
	if a == CellCaches {
		return "cell_caches"
	}
	return "skip_cell_caches"
}

// SampleOptions travel with every router query. The sampler passes them
// through untouched.
type SampleOptions struct {
	PopulatingCaches    bool
	Action              SampleAction
	CacheResultUniqueID uint64
	CacheFillUniqueID   uint64
}

// ChunkNoiseRouter evaluates the density fields vein placement depends on.
// A router serves one chunk at a time and is not safe for concurrent use.
type ChunkNoiseRouter interface {
	VeinToggle(pos NoisePos, opts SampleOptions) float64
	VeinRidged(pos NoisePos, opts SampleOptions) float64
	VeinGap(pos NoisePos, opts SampleOptions) float64
}
