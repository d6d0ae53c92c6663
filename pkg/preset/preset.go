// Package preset selects the brightness preset for a power cycle. The stored
// index is used for this session and the next one is written back straight
// away, so every power-on advances to the next level.
package preset

import (
	"fmt"

	"github.com/itohio/goheartbeat/pkg/nvstore"
)

// Resolve validates a stored index against count presets. Anything out of
// range, including an erased cell, resolves to 0.
func Resolve(stored byte, count int) int {
	if count <= 0 || int(stored) >= count {
		return 0
	}
	return int(stored)
}

// Next returns the index to persist for the following power cycle.
func Next(index, count int) byte {
	if count <= 0 {
		return 0
	}
	return byte((index + 1) % count)
}

// Rotate reads the cell, resolves the index for this session and writes the
// next one back. A failed read is treated as an uninitialised cell. The
// returned index is always valid, even when err is non-nil.
func Rotate(cell nvstore.Cell, count int) (index int, stored byte, err error) {
	stored, err = cell.Load()
	if err != nil {
		stored = nvstore.Erased
		err = fmt.Errorf("failed to load preset index: %w", err)
	}

	index = Resolve(stored, count)

	if werr := cell.Store(Next(index, count)); werr != nil {
		werr = fmt.Errorf("failed to store preset index: %w", werr)
		if err != nil {
			return index, stored, fmt.Errorf("%w; %w", err, werr)
		}
		return index, stored, werr
	}
	return index, stored, err
}

// Multiplier returns the brightness multiplier for index, taken modulo the
// preset count.
func Multiplier(presets []float32, index int) float32 {
	if len(presets) == 0 {
		return 1
	}
	if index < 0 {
		index = 0
	}
	return presets[index%len(presets)]
}
