// Package battery converts the battery sense ADC sample into a charge level
// and the coarse blink code reported at power-on.
package battery

import (
	"github.com/chewxy/math32"

	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/mathx"
)

// Reading is a battery measurement taken at startup.
type Reading struct {
	Raw     uint16  // ADC sample
	Voltage float32 // Pack voltage (V)
	Percent float32 // Charge level [0,100]
	Blinks  int     // Blink code 1..4
}

// Measure converts a raw ADC sample into a Reading.
func Measure(cfg *config.BatteryConfig, raw uint16) Reading {
	v := Voltage(cfg, raw)
	pct := Percent(cfg, v)
	return Reading{
		Raw:     raw,
		Voltage: v,
		Percent: pct,
		Blinks:  BlinkCount(pct),
	}
}

// Voltage converts a raw ADC sample to the pack voltage in front of the divider.
// Formula: V = raw * (V_ref / full_scale) * divider
func Voltage(cfg *config.BatteryConfig, raw uint16) float32 {
	if cfg.Resolution == 0 {
		return 0
	}
	return float32(raw) * (cfg.RefVoltage / float32(cfg.Resolution)) * cfg.DividerRatio
}

// Percent linearly maps v between the minimum safe voltage (0%) and the
// full-charge voltage (100%), clamped to [0,100].
func Percent(cfg *config.BatteryConfig, v float32) float32 {
	span := cfg.MaxVoltage - cfg.MinVoltage
	if span <= 0 || math32.IsNaN(v) {
		return 0
	}
	return mathx.Clamp((v-cfg.MinVoltage)/span*100, 0, 100)
}

// BlinkCount quantises a charge percentage into 1..4 blinks.
func BlinkCount(pct float32) int {
	switch {
	case pct > 75:
		return 4
	case pct > 50:
		return 3
	case pct > 25:
		return 2
	default:
		return 1
	}
}

// RawFor returns the ADC sample a pack at voltage v would produce, saturated
// to the converter range. Used to simulate a battery.
func RawFor(cfg *config.BatteryConfig, v float32) uint16 {
	if cfg.DividerRatio <= 0 || cfg.RefVoltage <= 0 || cfg.Resolution == 0 {
		return 0
	}
	raw := math32.Round(v / cfg.DividerRatio / cfg.RefVoltage * float32(cfg.Resolution))
	return uint16(mathx.Clamp(raw, 0, float32(cfg.Resolution-1)))
}
