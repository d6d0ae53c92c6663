package scope

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goheartbeat/pkg/battery"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/sim"
	"github.com/itohio/goheartbeat/pkg/startup"
	"github.com/itohio/goheartbeat/pkg/trace"
)

func samplesOver(n int, step time.Duration) []sim.Sample {
	samples := make([]sim.Sample, n)
	ts := time.Time{}
	for i := range samples {
		samples[i] = sim.Sample{Timestamp: ts, Duty: uint8(i), Mode: sim.PWM}
		ts = ts.Add(step)
	}
	return samples
}

func TestScope_UpdateData_MinimumWindow(t *testing.T) {
	test.NewTempApp(t)
	cfg := config.Default()
	s := New(cfg)

	s.UpdateData(samplesOver(10, time.Second/10), nil, trace.Stats{})

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Len(t, s.displaySamples, 10)
	assert.Equal(t, time.Time{}, s.xMin)
	assert.Equal(t, 15*time.Second, s.xMax.Sub(s.xMin))
}

func TestScope_UpdateData_Downsamples(t *testing.T) {
	test.NewTempApp(t)
	s := New(config.Default())

	samples := samplesOver(5000, 5*time.Millisecond)
	s.UpdateData(samples, nil, trace.Stats{})

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Len(t, s.displaySamples, s.maxDisplayPoints)
	assert.Equal(t, samples[0].Timestamp, s.xMin)
	// Decimation keeps every fifth sample, so the last shown one is 4995.
	assert.Equal(t, samples[4995].Timestamp, s.xMax)
}

func TestScope_PowerCycle(t *testing.T) {
	test.NewTempApp(t)
	s := New(config.Default())

	s.PowerOn()
	s.UpdateData(samplesOver(10, time.Millisecond), []trace.Beat{{Peak: 9}}, trace.Stats{Beats: 1})
	s.SetReport(startup.Result{Index: 2, Multiplier: 0.6})

	s.mu.RLock()
	require.NotNil(t, s.report)
	assert.Equal(t, 2, s.report.Index)
	assert.True(t, s.powered)
	s.mu.RUnlock()

	s.PowerOff()
	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Nil(t, s.report)
	assert.False(t, s.powered)
	assert.Empty(t, s.displaySamples)
	assert.Empty(t, s.beats)
}

func TestScope_Renders(t *testing.T) {
	test.NewTempApp(t)
	s := New(config.Default())
	s.Resize(fyne.NewSize(600, 400))

	s.PowerOn()
	s.SetReport(startup.Result{Battery: battery.Reading{Voltage: 8, Percent: 77, Blinks: 4}, Index: 1, Multiplier: 0.2})
	samples := samplesOver(100, 10*time.Millisecond)
	beats := []trace.Beat{{StartTime: samples[10].Timestamp, EndTime: samples[20].Timestamp, Peak: 20}}
	s.UpdateData(samples, beats, trace.Stats{})

	r := test.WidgetRenderer(s)
	r.Refresh()
	assert.Greater(t, len(r.Objects()), 100)
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name    string
		powered bool
		report  *startup.Result
		stats   trace.Stats
		want    string
	}{
		{name: "off", want: "powered off"},
		{name: "starting", powered: true, want: "starting up"},
		{
			name:    "running",
			powered: true,
			report:  &startup.Result{Battery: battery.Reading{Voltage: 7.998, Percent: 77.7, Blinks: 4}, Index: 2, Multiplier: 0.6},
			want:    "battery 8.00V (78%, 4 blinks)  preset 2 x0.6",
		},
		{
			name:    "with rate",
			powered: true,
			report:  &startup.Result{Battery: battery.Reading{Voltage: 6.6, Blinks: 1}, Multiplier: 0.1},
			stats:   trace.Stats{BPM: 9.77},
			want:    "battery 6.60V (0%, 1 blinks)  preset 0 x0.1  9.8 bpm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusLine(tt.powered, tt.report, tt.stats))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0.50s", formatTime(500*time.Millisecond))
	assert.Equal(t, "1.5s", formatTime(1500*time.Millisecond))
}
