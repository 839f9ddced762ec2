package random

import "unicode/utf16"

// PositionSeed mixes a block position into a 64-bit seed. The x term is
// multiplied in 32-bit arithmetic before widening, as the reference does.
func PositionSeed(x, y, z int32) int64 {
	l := int64(x*3129871) ^ int64(z)*116129781 ^ int64(y)
	l = l*l*42317861 + l*11
	return l >> 16
}

// JavaStringHash returns the 32-bit polynomial hash of s over its UTF-16 code
// units.
func JavaStringHash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}

// mixStafford13 is the SplitMix64 variant 13 finalizer.
func mixStafford13(z uint64) uint64 {
	z = (z ^ z>>30) * 0xBF58476D1CE4E5B9
	z = (z ^ z>>27) * 0x94D049BB133111EB
	return z ^ z>>31
}

// upgradeSeed expands a 64-bit seed into the two Xoroshiro state words.
func upgradeSeed(seed int64) (lo, hi uint64) {
	l := uint64(seed) ^ silverRatio64
	h := l + goldenRatio64
	return mixStafford13(l), mixStafford13(h)
}
