package mathx

import "golang.org/x/exp/constraints"

// Percent maps raw in [0, fullScale] to [0, 100] with truncation.
// Values above fullScale saturate at 100; fullScale 0 yields 0.
func Percent[T constraints.Unsigned](raw, fullScale T) uint8 {
	if fullScale == 0 {
		return 0
	}
	if raw >= fullScale {
		return 100
	}
	return uint8((uint64(raw) * 100) / uint64(fullScale))
}
