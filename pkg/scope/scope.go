// Package scope is a Fyne widget that plots the simulated LED output the way
// an oscilloscope on the LED pin would show it.
package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/sim"
	"github.com/itohio/goheartbeat/pkg/startup"
	"github.com/itohio/goheartbeat/pkg/trace"
)

const (
	dutyMin = 0
	dutyMax = 255
)

// ScopeWidget displays the LED duty over the trace window with beat markers.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu      sync.RWMutex
	beats   []trace.Beat
	stats   trace.Stats
	report  *startup.Result
	powered bool

	// Display buffer (reused for downsampling)
	displaySamples []sim.Sample

	xMin, xMax time.Time

	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	s := &ScopeWidget{
		cfg:              cfg,
		beats:            make([]trace.Beat, 0),
		displaySamples:   make([]sim.Sample, 0, 1000),
		maxDisplayPoints: 1000,
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the plotted window.
// Call it from the trace callback using fyne.Do().
func (s *ScopeWidget) UpdateData(samples []sim.Sample, beats []trace.Beat, stats trace.Stats) {
	s.mu.Lock()
	s.displaySamples = trace.Downsample(s.displaySamples, samples, s.maxDisplayPoints)
	s.beats = beats
	s.stats = stats
	s.updateTimeScale()
	s.mu.Unlock()

	s.Refresh()
}

// PowerOn clears the plot for a new power cycle.
func (s *ScopeWidget) PowerOn() {
	s.mu.Lock()
	s.report = nil
	s.powered = true
	s.displaySamples = s.displaySamples[:0]
	s.beats = s.beats[:0]
	s.stats = trace.Stats{}
	s.updateTimeScale()
	s.mu.Unlock()

	s.Refresh()
}

// SetReport shows the startup report of the running power cycle.
func (s *ScopeWidget) SetReport(r startup.Result) {
	s.mu.Lock()
	s.report = &r
	s.powered = true
	s.mu.Unlock()

	s.Refresh()
}

// PowerOff clears the report and the plot.
func (s *ScopeWidget) PowerOff() {
	s.mu.Lock()
	s.report = nil
	s.powered = false
	s.displaySamples = s.displaySamples[:0]
	s.beats = s.beats[:0]
	s.stats = trace.Stats{}
	s.updateTimeScale()
	s.mu.Unlock()

	s.Refresh()
}

// updateTimeScale keeps the X axis at least one trace window wide.
// The Y axis is fixed to the 8-bit duty range.
func (s *ScopeWidget) updateTimeScale() {
	window := time.Duration(s.cfg.Sim.WindowSeconds * float64(time.Second))

	if len(s.displaySamples) == 0 {
		s.xMin = time.Time{}
		s.xMax = s.xMin.Add(window)
		return
	}

	s.xMin = s.displaySamples[0].Timestamp
	s.xMax = s.displaySamples[len(s.displaySamples)-1].Timestamp
	if s.xMax.Sub(s.xMin) < window {
		s.xMax = s.xMin.Add(window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
