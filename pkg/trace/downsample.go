package trace

import "github.com/itohio/goheartbeat/pkg/sim"

// Downsample decimates samples to at most maxPoints for display.
// It reuses dst when it has enough capacity and returns the filled slice.
func Downsample(dst []sim.Sample, samples []sim.Sample, maxPoints int) []sim.Sample {
	if maxPoints <= 0 {
		return dst[:0]
	}
	if len(samples) <= maxPoints {
		if cap(dst) >= len(samples) {
			dst = dst[:len(samples)]
			copy(dst, samples)
			return dst
		}
		result := make([]sim.Sample, len(samples))
		copy(result, samples)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]sim.Sample, 0, maxPoints)
	}

	step := float64(len(samples)) / float64(maxPoints)
	for i := range maxPoints {
		idx := int(float64(i) * step)
		if idx < len(samples) {
			dst = append(dst, samples[idx])
		}
	}
	return dst
}
