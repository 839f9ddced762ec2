package random

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"
)

const (
	goldenRatio64 uint64 = 0x9E3779B97F4A7C15
	silverRatio64 uint64 = 0x6A09E667F3BCC909
)

// Xoroshiro is a Xoroshiro128++ source.
type Xoroshiro struct {
	lo, hi uint64
}

// NewXoroshiro seeds a source from a 64-bit seed.
func NewXoroshiro(seed int64) *Xoroshiro {
	lo, hi := upgradeSeed(seed)
	return NewXoroshiroFrom(lo, hi)
}

// NewXoroshiroFrom seeds a source from raw state words. An all-zero state is
// replaced by the golden/silver ratio pair.
func NewXoroshiroFrom(lo, hi uint64) *Xoroshiro {
	if lo|hi == 0 {
		lo, hi = goldenRatio64, silverRatio64
	}
	return &Xoroshiro{lo: lo, hi: hi}
}

// NextUint64 advances the generator.
func (x *Xoroshiro) NextUint64() uint64 {
	l, m := x.lo, x.hi
	n := bits.RotateLeft64(l+m, 17) + l
	m ^= l
	x.lo = bits.RotateLeft64(l, 49) ^ m ^ m<<21
	x.hi = bits.RotateLeft64(m, 28)
	return n
}

func (x *Xoroshiro) nextBits(n uint) uint64 {
	return x.NextUint64() >> (64 - n)
}

func (x *Xoroshiro) NextInt64() int64 { return int64(x.NextUint64()) }

func (x *Xoroshiro) NextInt32() int32 { return int32(x.NextUint64()) }

// NextInt32n uses Lemire's multiply-shift rejection method.
func (x *Xoroshiro) NextInt32n(bound int32) int32 {
	if bound <= 0 {
		panic("random: bound must be positive")
	}
	b := uint64(bound)
	m := uint64(uint32(x.NextInt32())) * b
	low := m & 0xFFFFFFFF
	if low < b {
		threshold := uint64(uint32(-bound) % uint32(bound))
		for low < threshold {
			m = uint64(uint32(x.NextInt32())) * b
			low = m & 0xFFFFFFFF
		}
	}
	return int32(m >> 32)
}

func (x *Xoroshiro) NextFloat32() float32 {
	return float32(x.nextBits(24)) * float32Unit
}

func (x *Xoroshiro) NextFloat64() float64 {
	return float64(x.nextBits(53)) * float64Unit
}

func (x *Xoroshiro) NextBool() bool { return x.NextUint64()&1 != 0 }

func (x *Xoroshiro) Skip(n int) {
	for range n {
		x.NextUint64()
	}
}

func (x *Xoroshiro) Fork() Source {
	lo := x.NextUint64()
	hi := x.NextUint64()
	return NewXoroshiroFrom(lo, hi)
}

func (x *Xoroshiro) ForkPositional() Deriver {
	lo := x.NextUint64()
	hi := x.NextUint64()
	return XoroshiroDeriver{Lo: lo, Hi: hi}
}

// XoroshiroDeriver derives Xoroshiro sources from a pair of seed words.
type XoroshiroDeriver struct {
	Lo, Hi uint64
}

func (d XoroshiroDeriver) SplitPos(x, y, z int32) Source {
	return NewXoroshiroFrom(uint64(PositionSeed(x, y, z))^d.Lo, d.Hi)
}

// SplitString keys the source by the MD5 digest of name, read as two
// big-endian words.
func (d XoroshiroDeriver) SplitString(name string) Source {
	sum := md5.Sum([]byte(name))
	lo := binary.BigEndian.Uint64(sum[:8])
	hi := binary.BigEndian.Uint64(sum[8:])
	return NewXoroshiroFrom(lo^d.Lo, hi^d.Hi)
}

// SplitLong mixes seed into both state words, unlike SplitPos which only
// touches the low word.
func (d XoroshiroDeriver) SplitLong(seed int64) Source {
	return NewXoroshiroFrom(uint64(seed)^d.Lo, uint64(seed)^d.Hi)
}
