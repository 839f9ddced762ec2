// Package mathutil holds the small numeric helpers shared by world generation.
package mathutil

import "cmp"

// Number is any ordered numeric type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b by t.
func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// InverseLerp returns where v sits between a and b, unclamped.
func InverseLerp(v, a, b float64) float64 {
	return (v - a) / (b - a)
}

// ClampedLerp is Lerp with t limited to [0, 1].
func ClampedLerp(a, b, t float64) float64 {
	if t < 0 {
		return a
	}
	if t > 1 {
		return b
	}
	return Lerp(t, a, b)
}

// ClampedMap linearly maps v from [inMin, inMax] to [outMin, outMax],
// saturating outside the input range. inMin must be below inMax.
func ClampedMap(v, inMin, inMax, outMin, outMax float64) float64 {
	if v <= inMin {
		return outMin
	}
	if v >= inMax {
		return outMax
	}
	return outMin + (outMax-outMin)*(v-inMin)/(inMax-inMin)
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv[T ~int | ~int32 | ~int64](a, b T) T {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the remainder with the sign of b.
func FloorMod[T ~int | ~int32 | ~int64](a, b T) T {
	return a - FloorDiv(a, b)*b
}

// Abs returns |v|.
func Abs[T Number](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
