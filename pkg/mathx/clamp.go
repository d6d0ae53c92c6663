// Package mathx holds small numeric helpers shared by the firmware packages.
package mathx

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

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

// Wrap8 truncates a non-negative value towards zero and keeps the low 8 bits,
// the way a fixed-width uint8 store would. Negative values, NaN and +Inf yield 0.
func Wrap8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	m := math32.Mod(v, 256)
	if math32.IsNaN(m) {
		return 0
	}
	return uint8(m)
}

// Saturate8 truncates v towards zero and saturates it to 0..255.
func Saturate8(v float32) uint8 {
	return uint8(Clamp(v, 0, 255))
}
