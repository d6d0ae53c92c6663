package config

import (
	"errors"
	"fmt"
	"time"
)

// Config represents the firmware configuration. On the device it is always
// Default(); the host simulator may override it from a YAML file.
type Config struct {
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Presets   []float32       `yaml:"presets"` // Brightness multipliers, dim to full
	Battery   BatteryConfig   `yaml:"battery"`
	Startup   StartupConfig   `yaml:"startup"`
	Sim       SimConfig       `yaml:"sim"`
}

// HeartbeatConfig contains the waveform engine parameters.
type HeartbeatConfig struct {
	Baseline        float32       `yaml:"baseline"`         // Floor brightness fraction [0,1)
	ModulationSpeed int           `yaml:"modulation_speed"` // Ticks between recomputations in diastole
	SystoleGain     float32       `yaml:"systole_gain"`     // Amplitude of the systole pulse relative to the table
	Tick            time.Duration `yaml:"tick"`
	ClampDuty       bool          `yaml:"clamp_duty"` // Saturate instead of wrapping an out-of-range duty
}

// BatteryConfig contains the battery sense divider and ADC parameters.
type BatteryConfig struct {
	DividerRatio float32 `yaml:"divider_ratio"`
	MinVoltage   float32 `yaml:"min_voltage"` // 0%
	MaxVoltage   float32 `yaml:"max_voltage"` // 100%
	RefVoltage   float32 `yaml:"ref_voltage"`
	Resolution   uint16  `yaml:"resolution"` // ADC full scale in steps (1024 for 10-bit)
}

// StartupConfig contains the power-on reporting delays.
type StartupConfig struct {
	Stabilize time.Duration `yaml:"stabilize"`
	Blink     time.Duration `yaml:"blink"` // Battery blink half-period; preset blinks use half of it
	Pause     time.Duration `yaml:"pause"`
	Settle    time.Duration `yaml:"settle"`
}

// SimConfig contains host simulator parameters.
type SimConfig struct {
	BatteryVoltage float32 `yaml:"battery_voltage"` // Simulated pack voltage (V)
	StorePath      string  `yaml:"store_path"`      // File backing the persisted preset index
	Speed          float64 `yaml:"speed"`           // Simulated seconds per wall-clock second
	WindowSeconds  float64 `yaml:"window_seconds"`
	Buffer         int     `yaml:"buffer"` // Sample channel capacity
}

// Default returns the compile-time configuration of the firmware.
func Default() *Config {
	return &Config{
		Heartbeat: HeartbeatConfig{
			Baseline:        0.4,
			ModulationSpeed: 8,
			SystoleGain:     0.6,
			Tick:            time.Millisecond,
		},
		Presets: []float32{0.1, 0.2, 0.6, 1.0},
		Battery: BatteryConfig{
			DividerRatio: 2.0, // 2S LiPo through a /2 resistive divider
			MinVoltage:   6.6,
			MaxVoltage:   8.4,
			RefVoltage:   5.0,
			Resolution:   1024,
		},
		Startup: StartupConfig{
			Stabilize: 200 * time.Millisecond,
			Blink:     250 * time.Millisecond,
			Pause:     1000 * time.Millisecond,
			Settle:    500 * time.Millisecond,
		},
		Sim: SimConfig{
			BatteryVoltage: 8.0,
			StorePath:      "heartsim.nv",
			Speed:          1.0,
			WindowSeconds:  15,
			Buffer:         4096,
		},
	}
}

// Validate reports configurations under which the duty value may leave 0..255
// or the startup arithmetic becomes meaningless.
func (c *Config) Validate() error {
	var errs []error

	hb := c.Heartbeat
	if hb.Baseline < 0 || hb.Baseline >= 1 {
		errs = append(errs, fmt.Errorf("heartbeat.baseline %v outside [0,1)", hb.Baseline))
	}
	if hb.SystoleGain < 0 || hb.SystoleGain > 1 {
		errs = append(errs, fmt.Errorf("heartbeat.systole_gain %v outside [0,1]", hb.SystoleGain))
	}
	if hb.ModulationSpeed <= 0 {
		errs = append(errs, fmt.Errorf("heartbeat.modulation_speed must be positive, got %d", hb.ModulationSpeed))
	}
	if hb.Tick <= 0 {
		errs = append(errs, fmt.Errorf("heartbeat.tick must be positive, got %v", hb.Tick))
	}

	if len(c.Presets) == 0 || len(c.Presets) > 255 {
		errs = append(errs, fmt.Errorf("presets: need 1..255 levels, got %d", len(c.Presets)))
	}
	for i, p := range c.Presets {
		if p <= 0 || p > 1 {
			errs = append(errs, fmt.Errorf("presets[%d] %v outside (0,1]", i, p))
		}
	}

	b := c.Battery
	if b.MaxVoltage <= b.MinVoltage {
		errs = append(errs, fmt.Errorf("battery: max_voltage %v must exceed min_voltage %v", b.MaxVoltage, b.MinVoltage))
	}
	if b.Resolution == 0 {
		errs = append(errs, errors.New("battery.resolution must be non-zero"))
	}
	if b.RefVoltage <= 0 {
		errs = append(errs, fmt.Errorf("battery.ref_voltage must be positive, got %v", b.RefVoltage))
	}
	if b.DividerRatio <= 0 {
		errs = append(errs, fmt.Errorf("battery.divider_ratio must be positive, got %v", b.DividerRatio))
	} else if b.RefVoltage > 0 && b.MaxVoltage/b.DividerRatio > b.RefVoltage {
		errs = append(errs, fmt.Errorf("battery: max_voltage %v through divider %v exceeds the ADC reference %v",
			b.MaxVoltage, b.DividerRatio, b.RefVoltage))
	}

	return errors.Join(errs...)
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Heartbeat.ModulationSpeed == 0 {
		c.Heartbeat.ModulationSpeed = def.Heartbeat.ModulationSpeed
	}
	if c.Heartbeat.Tick == 0 {
		c.Heartbeat.Tick = def.Heartbeat.Tick
	}

	if len(c.Presets) == 0 {
		c.Presets = def.Presets
	}

	if c.Battery.DividerRatio == 0 {
		c.Battery.DividerRatio = def.Battery.DividerRatio
	}
	if c.Battery.MinVoltage == 0 && c.Battery.MaxVoltage == 0 {
		c.Battery.MinVoltage = def.Battery.MinVoltage
		c.Battery.MaxVoltage = def.Battery.MaxVoltage
	}
	if c.Battery.RefVoltage == 0 {
		c.Battery.RefVoltage = def.Battery.RefVoltage
	}
	if c.Battery.Resolution == 0 {
		c.Battery.Resolution = def.Battery.Resolution
	}

	if c.Startup.Blink == 0 {
		c.Startup.Blink = def.Startup.Blink
	}

	if c.Sim.StorePath == "" {
		c.Sim.StorePath = def.Sim.StorePath
	}
	if c.Sim.Speed == 0 {
		c.Sim.Speed = def.Sim.Speed
	}
	if c.Sim.WindowSeconds == 0 {
		c.Sim.WindowSeconds = def.Sim.WindowSeconds
	}
	if c.Sim.Buffer == 0 {
		c.Sim.Buffer = def.Sim.Buffer
	}
}
