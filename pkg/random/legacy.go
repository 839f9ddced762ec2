package random

const (
	lcgMultiplier int64 = 0x5DEECE66D
	lcgAddend     int64 = 0xB
	lcgMask       int64 = 1<<48 - 1
)

// Legacy is the 48-bit linear congruential source of pre-1.18 worlds.
type Legacy struct {
	seed int64
}

// NewLegacy scrambles seed the way the reference constructor does.
func NewLegacy(seed int64) *Legacy {
	return &Legacy{seed: (seed ^ lcgMultiplier) & lcgMask}
}

func (l *Legacy) next(bits uint) int32 {
	l.seed = (l.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int32(l.seed >> (48 - bits))
}

func (l *Legacy) NextInt64() int64 {
	hi := l.next(32)
	lo := l.next(32)
	return int64(hi)<<32 + int64(lo)
}

func (l *Legacy) NextInt32() int32 { return l.next(32) }

func (l *Legacy) NextInt32n(bound int32) int32 {
	if bound <= 0 {
		panic("random: bound must be positive")
	}
	if bound&-bound == bound {
		return int32(int64(bound) * int64(l.next(31)) >> 31)
	}
	for {
		j := l.next(31)
		k := j % bound
		// Overflow here marks a draw from the biased tail.
		if j-k+(bound-1) >= 0 {
			return k
		}
	}
}

func (l *Legacy) NextFloat32() float32 {
	return float32(l.next(24)) * float32Unit
}

func (l *Legacy) NextFloat64() float64 {
	hi := l.next(26)
	lo := l.next(27)
	return float64(int64(hi)<<27+int64(lo)) * float64Unit
}

func (l *Legacy) NextBool() bool { return l.next(1) != 0 }

func (l *Legacy) Skip(n int) {
	for range n {
		l.next(32)
	}
}

func (l *Legacy) Fork() Source { return NewLegacy(l.NextInt64()) }

func (l *Legacy) ForkPositional() Deriver { return LegacyDeriver{Seed: l.NextInt64()} }

// LegacyDeriver derives legacy sources from a single seed.
type LegacyDeriver struct {
	Seed int64
}

func (d LegacyDeriver) SplitPos(x, y, z int32) Source {
	return NewLegacy(PositionSeed(x, y, z) ^ d.Seed)
}

func (d LegacyDeriver) SplitString(name string) Source {
	return NewLegacy(int64(JavaStringHash(name)) ^ d.Seed)
}

func (d LegacyDeriver) SplitLong(seed int64) Source {
	return NewLegacy(seed)
}
