package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, float32(0.4), cfg.Heartbeat.Baseline)
	assert.Equal(t, 8, cfg.Heartbeat.ModulationSpeed)
	assert.Equal(t, float32(0.6), cfg.Heartbeat.SystoleGain)
	assert.Equal(t, time.Millisecond, cfg.Heartbeat.Tick)
	assert.False(t, cfg.Heartbeat.ClampDuty)
	assert.Equal(t, []float32{0.1, 0.2, 0.6, 1.0}, cfg.Presets)
	assert.Equal(t, float32(2.0), cfg.Battery.DividerRatio)
	assert.Equal(t, float32(6.6), cfg.Battery.MinVoltage)
	assert.Equal(t, float32(8.4), cfg.Battery.MaxVoltage)
	assert.Equal(t, float32(5.0), cfg.Battery.RefVoltage)
	assert.Equal(t, uint16(1024), cfg.Battery.Resolution)
	assert.Equal(t, 200*time.Millisecond, cfg.Startup.Stabilize)
	assert.Equal(t, 250*time.Millisecond, cfg.Startup.Blink)
	assert.Equal(t, time.Second, cfg.Startup.Pause)
	assert.Equal(t, 500*time.Millisecond, cfg.Startup.Settle)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"baseline at one", func(c *Config) { c.Heartbeat.Baseline = 1 }},
		{"negative baseline", func(c *Config) { c.Heartbeat.Baseline = -0.1 }},
		{"systole gain above one", func(c *Config) { c.Heartbeat.SystoleGain = 1.5 }},
		{"zero modulation speed", func(c *Config) { c.Heartbeat.ModulationSpeed = 0 }},
		{"zero tick", func(c *Config) { c.Heartbeat.Tick = 0 }},
		{"no presets", func(c *Config) { c.Presets = nil }},
		{"preset above one", func(c *Config) { c.Presets = []float32{0.5, 1.2} }},
		{"zero preset", func(c *Config) { c.Presets = []float32{0} }},
		{"inverted voltage range", func(c *Config) { c.Battery.MaxVoltage = c.Battery.MinVoltage }},
		{"zero resolution", func(c *Config) { c.Battery.Resolution = 0 }},
		{"zero reference", func(c *Config) { c.Battery.RefVoltage = 0 }},
		{"negative divider", func(c *Config) { c.Battery.DividerRatio = -2 }},
		{"full pack saturates a 3.3V ADC", func(c *Config) { c.Battery.RefVoltage = 3.3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
heartbeat:
  baseline: 0.25
  modulation_speed: 4
  systole_gain: 0.5
  tick: 2ms
  clamp_duty: true

presets: [0.25, 0.5, 1.0]

battery:
  divider_ratio: 4.0
  min_voltage: 9.9
  max_voltage: 12.6
  ref_voltage: 3.3
  resolution: 4096

startup:
  stabilize: 100ms
  blink: 300ms
  pause: 2s
  settle: 1s

sim:
  battery_voltage: 11.1
  store_path: /tmp/hb.nv
  speed: 4
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, float32(0.25), cfg.Heartbeat.Baseline)
	assert.Equal(t, 4, cfg.Heartbeat.ModulationSpeed)
	assert.Equal(t, float32(0.5), cfg.Heartbeat.SystoleGain)
	assert.Equal(t, 2*time.Millisecond, cfg.Heartbeat.Tick)
	assert.True(t, cfg.Heartbeat.ClampDuty)
	assert.Equal(t, []float32{0.25, 0.5, 1.0}, cfg.Presets)
	assert.Equal(t, float32(4.0), cfg.Battery.DividerRatio)
	assert.Equal(t, float32(9.9), cfg.Battery.MinVoltage)
	assert.Equal(t, float32(12.6), cfg.Battery.MaxVoltage)
	assert.Equal(t, uint16(4096), cfg.Battery.Resolution)
	assert.Equal(t, 100*time.Millisecond, cfg.Startup.Stabilize)
	assert.Equal(t, 300*time.Millisecond, cfg.Startup.Blink)
	assert.Equal(t, 2*time.Second, cfg.Startup.Pause)
	assert.Equal(t, time.Second, cfg.Startup.Settle)
	assert.Equal(t, float32(11.1), cfg.Sim.BatteryVoltage)
	assert.Equal(t, "/tmp/hb.nv", cfg.Sim.StorePath)
	assert.Equal(t, float64(4), cfg.Sim.Speed)
	assert.Equal(t, float64(15), cfg.Sim.WindowSeconds) // default
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_RejectsOverflowingConfig(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("presets: [0.5, 1.5]\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
heartbeat:
  modulation_speed: 16
presets: []
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	// Should use defaults for missing fields
	assert.Equal(t, 16, cfg.Heartbeat.ModulationSpeed)
	assert.Equal(t, float32(0.4), cfg.Heartbeat.Baseline)   // default
	assert.Equal(t, Default().Presets, cfg.Presets)         // default
	assert.Equal(t, uint16(1024), cfg.Battery.Resolution)   // default
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Heartbeat.ModulationSpeed = 12
	cfg.Presets = []float32{0.5, 1.0}
	cfg.Startup.Pause = 3 * time.Second

	filename := t.TempDir() + "/saved.yaml"

	err := cfg.Save(filename)
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Heartbeat.ModulationSpeed)
	assert.Equal(t, []float32{0.5, 1.0}, loaded.Presets)
	assert.Equal(t, 3*time.Second, loaded.Startup.Pause)
}
