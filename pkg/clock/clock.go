// Package clock provides the delay primitive used by the startup sequence and
// the waveform loop.
package clock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Virtual.Sleep once its limit has been reached.
var ErrStopped = errors.New("clock stopped")

// Clock sleeps for fixed durations and reports the time it has reached.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

var (
	_ Clock = (*Pacer)(nil)
	_ Clock = (*Virtual)(nil)
)

// Pacer is a fixed-rate scheduler. Every Sleep moves an internal deadline
// forward by exactly d and waits until that deadline, so time spent between
// sleeps does not accumulate as drift. Speed > 1 runs faster than real time.
type Pacer struct {
	Speed float64

	mu       sync.Mutex
	start    time.Time // wall clock at first Sleep
	elapsed  time.Duration
	deadline time.Time
}

// NewPacer creates a Pacer running at the given speed (<= 0 means real time).
func NewPacer(speed float64) *Pacer {
	if speed <= 0 {
		speed = 1
	}
	return &Pacer{Speed: speed}
}

// Now returns simulated time: the first Sleep's wall clock plus everything slept since.
func (p *Pacer) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.start.IsZero() {
		p.start = time.Now()
		p.deadline = p.start
	}
	return p.start.Add(p.elapsed)
}

// Sleep waits until the next deadline or until ctx is done.
func (p *Pacer) Sleep(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	now := time.Now()
	if p.start.IsZero() {
		p.start = now
		p.deadline = now
	}
	p.elapsed += d
	p.deadline = p.deadline.Add(time.Duration(float64(d) / p.Speed))
	// Resynchronise after a stall longer than a second.
	if lag := now.Sub(p.deadline); lag > time.Second {
		p.deadline = now
	}
	wait := p.deadline.Sub(now)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Virtual is a clock that never waits. It accumulates slept time and, when
// Limit is non-zero, refuses to sleep past it.
type Virtual struct {
	Limit time.Duration

	mu      sync.Mutex
	origin  time.Time
	elapsed time.Duration
	sleeps  []time.Duration
	record  bool
}

// NewVirtual creates a virtual clock starting at origin.
func NewVirtual(origin time.Time, limit time.Duration) *Virtual {
	return &Virtual{origin: origin, Limit: limit}
}

// Record enables keeping every requested sleep for later inspection.
func (v *Virtual) Record() *Virtual {
	v.mu.Lock()
	v.record = true
	v.mu.Unlock()
	return v
}

// Now returns origin plus the total slept time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.origin.Add(v.elapsed)
}

// Elapsed returns the total slept time.
func (v *Virtual) Elapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.elapsed
}

// Sleeps returns a copy of the recorded sleep durations.
func (v *Virtual) Sleeps() []time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	result := make([]time.Duration, len(v.sleeps))
	copy(result, v.sleeps)
	return result
}

// Sleep advances virtual time by d.
func (v *Virtual) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.Limit > 0 && v.elapsed+d > v.Limit {
		return ErrStopped
	}
	v.elapsed += d
	if v.record {
		v.sleeps = append(v.sleeps, d)
	}
	return nil
}
