// Package random implements the world-generation random sources of the
// reference game: the Xoroshiro128++ source used by modern worlds, the 48-bit
// LCG used by legacy worlds, and the positional derivers built on both.
//
// Every function here is bit-compatible with the reference implementation so
// that two servers given the same seed generate identical chunks.
package random

// Source is a stateful, deterministic bit stream.
type Source interface {
	NextInt64() int64
	NextInt32() int32
	// NextInt32n returns a value in [0, bound). bound must be positive.
	NextInt32n(bound int32) int32
	// NextFloat32 returns a value in [0, 1) built from 24 random bits.
	NextFloat32() float32
	// NextFloat64 returns a value in [0, 1) built from 53 random bits.
	NextFloat64() float64
	NextBool() bool
	// Skip advances the stream by n draws.
	Skip(n int)
	// Fork returns an independent source seeded from this one.
	Fork() Source
	// ForkPositional returns a deriver seeded from this source.
	ForkPositional() Deriver
}

// Deriver produces fresh sources keyed by a position, a name or a long.
// Derivers are immutable and safe for concurrent use.
type Deriver interface {
	SplitPos(x, y, z int32) Source
	SplitString(name string) Source
	SplitLong(seed int64) Source
}

const (
	float32Unit = float32(1) / (1 << 24)
	// The reference widens a single-precision literal here, which happens to
	// be exactly 2^-53.
	float64Unit = float64(float32(1.110223e-16))
)

// NewWorldDerivers returns the root positional deriver for a world seed and
// the deriver used for ore-vein placement.
func NewWorldDerivers(seed int64, legacy bool) (root, ore Deriver) {
	var src Source
	if legacy {
		src = NewLegacy(seed)
	} else {
		src = NewXoroshiro(seed)
	}
	root = src.ForkPositional()
	ore = root.SplitString("minecraft:ore").ForkPositional()
	return root, ore
}
