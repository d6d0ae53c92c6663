// Package heartbeat generates the LED heartbeat waveform: a two-phase
// (diastole/systole) walk over the waveform table, blended with a baseline
// brightness floor and scaled by the session's brightness preset.
package heartbeat

import (
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/mathx"
)

// Phase is the heartbeat phase.
type Phase uint8

const (
	// Diastole is the fast "rest" phase at the base modulation interval.
	Diastole Phase = iota
	// Systole is the slow, damped "beat" phase at twice the base interval.
	Systole
)

func (p Phase) String() string {
	switch p {
	case Diastole:
		return "diastole"
	case Systole:
		return "systole"
	default:
		return "unknown"
	}
}

// State is the engine's phase/timing state.
type State struct {
	Phase    Phase
	Step     int   // Position in the waveform table, 0..TableSize-1
	Interval int   // Ticks between recomputations in the current phase
	Counter  int   // Ticks since the last recomputation, 0..Interval
	Duty     uint8 // Output value held between recomputations
	Cycles   int   // Completed table traversals
}

// Engine turns ticks into duty-cycle values. It is driven by a single loop
// and is not safe for concurrent use.
type Engine struct {
	baseline   float32
	gain       float32
	multiplier float32
	speed      int
	clamp      bool

	state State
}

// New creates an engine in diastole at step 0 with the base interval.
// multiplier is the active brightness preset.
func New(cfg *config.HeartbeatConfig, multiplier float32) *Engine {
	speed := cfg.ModulationSpeed
	if speed <= 0 {
		speed = 1
	}
	e := &Engine{
		baseline:   cfg.Baseline,
		gain:       cfg.SystoleGain,
		multiplier: multiplier,
		speed:      speed,
		clamp:      cfg.ClampDuty,
	}
	e.state = State{
		Phase:    Diastole,
		Interval: e.interval(Diastole),
	}
	return e
}

// State returns a snapshot of the engine state.
func (e *Engine) State() State { return e.state }

// Value returns the current output value without advancing.
func (e *Engine) Value() uint8 { return e.state.Duty }

// interval returns the modulation interval of phase p.
func (e *Engine) interval(p Phase) int {
	if p == Systole {
		return 2 * e.speed
	}
	return e.speed
}

// Tick advances the engine by one tick and returns the value to write out.
// Every Interval ticks a new value is computed from the current table step
// and the step advances; wrapping past the end of the table toggles the phase.
func (e *Engine) Tick() uint8 {
	s := &e.state

	s.Counter++
	if s.Counter < s.Interval {
		return s.Duty
	}
	s.Counter = 0

	s.Duty = e.Duty(Sample(s.Step), s.Phase)

	s.Step = (s.Step + 1) % TableSize
	if s.Step == 0 {
		s.Cycles++
		if s.Phase == Diastole {
			s.Phase = Systole
		} else {
			s.Phase = Diastole
		}
		s.Interval = e.interval(s.Phase)
	}

	return s.Duty
}

// Duty computes the output value for a table sample in phase p.
// The blend baseline*255 + sample*(1-baseline) is stored as a byte, then
// scaled by the preset multiplier and stored as a byte again. Systole
// samples are damped by the systole gain and truncated to 8 bits first.
// Every store truncates; values outside 0..255 wrap like a uint8 store
// unless the engine clamps.
func (e *Engine) Duty(sample uint8, p Phase) uint8 {
	if p == Systole {
		sample = mathx.Wrap8(float32(sample) * e.gain)
	}

	// Explicit conversions round every product to float32 and rule out FMA.
	blend := e.store(float32(e.baseline*255) + float32(float32(sample)*(1-e.baseline)))
	return e.store(float32(float32(blend) * e.multiplier))
}

// store converts v to a byte the way the engine is configured to.
func (e *Engine) store(v float32) uint8 {
	if e.clamp {
		return mathx.Saturate8(v)
	}
	return mathx.Wrap8(v)
}
