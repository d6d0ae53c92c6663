package trace

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/sim"
)

func TestRecorder_GracefulShutdown_NoCallbacksAfterClose(t *testing.T) {
	r := New(&config.SimConfig{WindowSeconds: 10})

	var count atomic.Int32
	r.OnUpdate(func(samples []sim.Sample, beats []Beat) {
		count.Add(1)
	})

	input := make(chan sim.Sample, 10)
	done := make(chan struct{})
	go func() {
		r.Process(input)
		close(done)
	}()

	now := time.Now()
	for i := range 3 {
		input <- sim.Sample{Timestamp: now.Add(time.Duration(i) * time.Millisecond), Duty: uint8(i), Mode: sim.PWM}
	}
	close(input)
	<-done

	assert.Equal(t, int32(3), count.Load())

	r.Add(sim.Sample{Timestamp: now.Add(time.Second), Duty: 10, Mode: sim.PWM})
	assert.Equal(t, int32(3), count.Load(), "no callbacks after the input closes")
	assert.Len(t, r.Samples(), 4, "samples are still recorded")
}

func TestRecorder_ResetShutdown(t *testing.T) {
	r := New(&config.SimConfig{WindowSeconds: 10})

	var count atomic.Int32
	r.OnUpdate(func(samples []sim.Sample, beats []Beat) {
		count.Add(1)
	})

	input := make(chan sim.Sample)
	close(input)
	r.Process(input)

	r.Add(sim.Sample{Timestamp: time.Now(), Duty: 1})
	assert.Zero(t, count.Load())

	r.ResetShutdown()
	r.Add(sim.Sample{Timestamp: time.Now(), Duty: 2})
	assert.Equal(t, int32(1), count.Load())
}

func TestRecorder_ConcurrentReaders(t *testing.T) {
	r := New(&config.SimConfig{WindowSeconds: 1})
	input := make(chan sim.Sample, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Process(input)
	}()

	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = r.Samples()
				_ = r.Beats()
				_ = r.Stats()
			}
		}
	}()

	ts := time.Time{}
	for i := range 1000 {
		input <- sim.Sample{Timestamp: ts, Duty: uint8(i), Mode: sim.PWM}
		ts = ts.Add(time.Millisecond)
	}
	close(input)
	close(stop)
	wg.Wait()

	assert.LessOrEqual(t, len(r.Samples()), 1000)
}

func TestRecorder_UpdateInterval(t *testing.T) {
	r := New(&config.SimConfig{WindowSeconds: 10})
	r.SetUpdateInterval(10 * time.Millisecond)

	var count atomic.Int32
	r.OnUpdate(func(samples []sim.Sample, beats []Beat) {
		count.Add(1)
	})

	ts := time.Time{}
	for range 100 {
		r.Add(sim.Sample{Timestamp: ts, Mode: sim.PWM})
		ts = ts.Add(time.Millisecond)
	}

	// First sample, then every tenth.
	assert.Equal(t, int32(10), count.Load())
	assert.Len(t, r.Samples(), 100)
}
