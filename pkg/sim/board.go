// Package sim simulates the heartbeat board on the host: an LED driven either
// as a digital pin or by PWM, and a battery behind the sense divider.
package sim

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/itohio/goheartbeat/pkg/battery"
	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/hw"
)

// DefaultBufferSize is the default size for the samples channel buffer.
const DefaultBufferSize = 4096

// Mode tells how the LED was driven when a sample was taken.
type Mode uint8

const (
	// Digital samples come from the startup blink codes.
	Digital Mode = iota
	// PWM samples come from the heartbeat engine.
	PWM
)

func (m Mode) String() string {
	if m == PWM {
		return "pwm"
	}
	return "digital"
}

// Sample is one LED write.
type Sample struct {
	Timestamp time.Time
	Duty      uint8
	Mode      Mode
}

// Board simulates the LED and the battery sense input.
type Board struct {
	battery *config.BatteryConfig
	clk     clock.Clock

	samples chan Sample
	mu      sync.RWMutex
	closed  bool
	dropped int

	voltage float32
	mode    Mode
	duty    uint8
	writes  int
}

var (
	_ hw.DigitalOut = (*Board)(nil)
	_ hw.AnalogIn   = (*Board)(nil)
	_ hw.PWMOut     = (*Board)(nil)
)

// NewBoard creates a board whose samples are timestamped by clk.
func NewBoard(cfg *config.Config, clk clock.Clock) *Board {
	bufSize := cfg.Sim.Buffer
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Board{
		battery: &cfg.Battery,
		clk:     clk,
		samples: make(chan Sample, bufSize),
		voltage: cfg.Sim.BatteryVoltage,
	}
}

// Samples returns the channel of LED writes. It is closed by Close.
func (b *Board) Samples() <-chan Sample {
	return b.samples
}

// Close stops emitting samples and closes the samples channel.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.samples)
	if b.dropped > 0 {
		log.WithField("dropped", b.dropped).Debug("samples dropped while the channel was full")
	}
	return nil
}

// SetBatteryVoltage changes the simulated pack voltage.
func (b *Board) SetBatteryVoltage(v float32) {
	b.mu.Lock()
	b.voltage = v
	b.mu.Unlock()
}

// Duty returns the last value written to the LED and how it was driven.
func (b *Board) Duty() (uint8, Mode) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.duty, b.mode
}

// Writes returns the number of LED writes so far.
func (b *Board) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}

// Dropped returns the number of samples lost to a full channel.
func (b *Board) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// ConfigureOutput switches the LED pin to digital output.
func (b *Board) ConfigureOutput() {
	b.mu.Lock()
	b.mode = Digital
	b.mu.Unlock()
}

// High turns the LED fully on.
func (b *Board) High() { b.write(Digital, 255) }

// Low turns the LED off.
func (b *Board) Low() { b.write(Digital, 0) }

// ConfigurePWM switches the LED pin to PWM.
func (b *Board) ConfigurePWM() error {
	b.mu.Lock()
	b.mode = PWM
	b.mu.Unlock()
	return nil
}

// SetDuty writes a PWM duty cycle.
func (b *Board) SetDuty(duty uint8) { b.write(PWM, duty) }

// ConfigureInput is a no-op; the sense input is always available.
func (b *Board) ConfigureInput() {}

// Read returns the ADC sample of the simulated battery.
func (b *Board) Read() uint16 {
	b.mu.RLock()
	v := b.voltage
	b.mu.RUnlock()
	return battery.RawFor(b.battery, v)
}

func (b *Board) write(mode Mode, duty uint8) {
	s := Sample{Timestamp: b.clk.Now(), Duty: duty, Mode: mode}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.mode = mode
	b.duty = duty
	b.writes++

	if b.closed {
		return
	}
	select {
	case b.samples <- s:
	default:
		b.dropped++
	}
}
