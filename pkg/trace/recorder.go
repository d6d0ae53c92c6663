// Package trace records the LED output of a simulated board over a sliding
// time window and picks out individual beats.
package trace

import (
	"sync"
	"time"

	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/sim"
)

// Beat is one brightness pulse: the output rose above the window midpoint
// and came back below it.
type Beat struct {
	StartIndex int // First sample above the threshold
	EndIndex   int // Last sample above the threshold (updated while the beat continues)
	StartTime  time.Time
	EndTime    time.Time
	Peak       uint8
	Open       bool // Still above the threshold
}

// Stats summarises the samples in the window.
type Stats struct {
	Min, Max uint8
	Samples  int
	Beats    int
	BPM      float64 // From the spacing of beat starts, 0 with fewer than two beats
}

// Recorder keeps a time-windowed FIFO of LED samples and the beats detected in it.
type Recorder struct {
	window time.Duration

	mu      sync.RWMutex
	samples []sim.Sample // Ordered oldest first
	beats   []Beat
	counts  [256]int // PWM samples in the window per duty value
	pwm     int
	min     uint8
	max     uint8

	callbacks []func(samples []sim.Sample, beats []Beat)
	cbMu      sync.RWMutex

	interval   time.Duration // Minimum sample time between callbacks
	lastNotify time.Time
	notified   bool

	shutdown bool
}

// New creates a recorder with the window from cfg.
func New(cfg *config.SimConfig) *Recorder {
	window := time.Duration(cfg.WindowSeconds * float64(time.Second))
	if window <= 0 {
		window = 15 * time.Second
	}
	return &Recorder{
		window:  window,
		samples: make([]sim.Sample, 0),
		beats:   make([]Beat, 0),
	}
}

// Process consumes samples until in is closed. After that no more callbacks fire.
func (r *Recorder) Process(in <-chan sim.Sample) {
	for s := range in {
		r.Add(s)
	}
	r.mu.Lock()
	r.shutdown = true
	r.mu.Unlock()
}

// Add records one sample. Digital samples (blink codes) are kept for display
// but do not take part in beat detection.
func (r *Recorder) Add(s sim.Sample) {
	r.mu.Lock()

	r.samples = append(r.samples, s)
	if s.Mode == sim.PWM {
		r.counts[s.Duty]++
		r.pwm++
	}
	r.trim(s.Timestamp.Add(-r.window))
	r.rescale()
	if s.Mode == sim.PWM {
		r.detect()
	}

	notify := !r.shutdown &&
		(r.interval <= 0 || !r.notified || s.Timestamp.Sub(r.lastNotify) >= r.interval)
	if notify {
		r.lastNotify = s.Timestamp
		r.notified = true
	}
	r.mu.Unlock()

	if notify {
		r.notifyCallbacks()
	}
}

// trim drops samples at or before cutoff and shifts beat indices.
func (r *Recorder) trim(cutoff time.Time) {
	cut := 0
	for cut < len(r.samples) && !r.samples[cut].Timestamp.After(cutoff) {
		cut++
	}
	if cut == 0 {
		return
	}
	for _, s := range r.samples[:cut] {
		if s.Mode == sim.PWM {
			r.counts[s.Duty]--
			r.pwm--
		}
	}
	r.samples = r.samples[cut:]

	valid := r.beats[:0]
	for _, b := range r.beats {
		b.StartIndex -= cut
		b.EndIndex -= cut
		if b.EndIndex >= 0 {
			if b.StartIndex < 0 {
				b.StartIndex = 0
			}
			valid = append(valid, b)
		}
	}
	r.beats = valid
}

// rescale updates the PWM min/max of the window from the duty histogram.
func (r *Recorder) rescale() {
	if r.pwm == 0 {
		r.min, r.max = 0, 0
		return
	}
	lo := 0
	for r.counts[lo] == 0 {
		lo++
	}
	hi := len(r.counts) - 1
	for r.counts[hi] == 0 {
		hi--
	}
	r.min, r.max = uint8(lo), uint8(hi)
}

// detect extends the open beat or starts a new one at an upward crossing of
// the window midpoint.
func (r *Recorder) detect() {
	last := len(r.samples) - 1
	s := r.samples[last]

	if r.max == r.min {
		return
	}
	threshold := r.min + (r.max-r.min)/2
	above := s.Duty > threshold

	var open *Beat
	if n := len(r.beats); n > 0 && r.beats[n-1].Open {
		open = &r.beats[n-1]
	}

	switch {
	case above && open != nil:
		open.EndIndex = last
		open.EndTime = s.Timestamp
		open.Peak = max(open.Peak, s.Duty)
	case above:
		r.beats = append(r.beats, Beat{
			StartIndex: last,
			EndIndex:   last,
			StartTime:  s.Timestamp,
			EndTime:    s.Timestamp,
			Peak:       s.Duty,
			Open:       true,
		})
	case open != nil:
		open.Open = false
	}
}

// Samples returns a copy of the samples in the window.
func (r *Recorder) Samples() []sim.Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]sim.Sample, len(r.samples))
	copy(result, r.samples)
	return result
}

// Beats returns a copy of the beats in the window.
func (r *Recorder) Beats() []Beat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Beat, len(r.beats))
	copy(result, r.beats)
	return result
}

// Stats returns a summary of the window.
func (r *Recorder) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := Stats{
		Min:     r.min,
		Max:     r.max,
		Samples: len(r.samples),
		Beats:   len(r.beats),
	}
	if n := len(r.beats); n >= 2 {
		span := r.beats[n-1].StartTime.Sub(r.beats[0].StartTime)
		if span > 0 {
			st.BPM = float64(n-1) / span.Minutes()
		}
	}
	return st
}

// OnUpdate registers a callback invoked after every recorded sample with
// copies of the window. The callback should return quickly.
func (r *Recorder) OnUpdate(callback func(samples []sim.Sample, beats []Beat)) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	r.callbacks = append(r.callbacks, callback)
}

// SetUpdateInterval limits callbacks to one per interval of sample time.
// Zero notifies on every sample.
func (r *Recorder) SetUpdateInterval(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = interval
}

// ResetShutdown re-enables callbacks before a new board is attached.
func (r *Recorder) ResetShutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdown = false
}

// Reset clears the window.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = r.samples[:0]
	r.beats = r.beats[:0]
	r.counts = [256]int{}
	r.pwm = 0
	r.min, r.max = 0, 0
	r.notified = false
}

func (r *Recorder) notifyCallbacks() {
	r.cbMu.RLock()
	callbacks := make([]func(samples []sim.Sample, beats []Beat), len(r.callbacks))
	copy(callbacks, r.callbacks)
	r.cbMu.RUnlock()

	if len(callbacks) == 0 {
		return
	}

	samples := r.Samples()
	beats := r.Beats()
	for _, cb := range callbacks {
		if cb != nil {
			cb(samples, beats)
		}
	}
}
