package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StrictlyBetween reports lo < v && v < hi.
func StrictlyBetween[T constraints.Ordered](v, lo, hi T) bool {
	return v > lo && v < hi
}
