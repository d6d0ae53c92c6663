package scope

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/goheartbeat/pkg/sim"
	"github.com/itohio/goheartbeat/pkg/startup"
	"github.com/itohio/goheartbeat/pkg/trace"
)

var (
	colorGrid    = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colorAxis    = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colorPWM     = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	colorDigital = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	colorBeat    = color.RGBA{R: 0, G: 100, B: 200, A: 255}
	colorStatus  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	grid *canvas.Rectangle

	objects []fyne.CanvasObject

	lastSize fyne.Size
}

// plot is the drawing area inside the axis margins.
type plot struct {
	x, y, w, h float32
	xMin, xMax time.Time
}

func (p plot) xAt(t time.Time) float32 {
	span := p.xMax.Sub(p.xMin).Seconds()
	if span <= 0 {
		return p.x
	}
	return p.x + float32(t.Sub(p.xMin).Seconds()/span)*p.w
}

func (p plot) yAt(duty uint8) float32 {
	return p.y + p.h - float32(int(duty)-dutyMin)/float32(dutyMax-dutyMin)*p.h
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the canvas objects from the widget data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	samples := r.scope.displaySamples
	beats := r.scope.beats
	stats := r.scope.stats
	report := r.scope.report
	powered := r.scope.powered
	p := plot{xMin: r.scope.xMin, xMax: r.scope.xMax}
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	const (
		marginLeft   = 40
		marginRight  = 20
		marginTop    = 40
		marginBottom = 30
	)
	p.x, p.y = marginLeft, marginTop
	p.w = size.Width - marginLeft - marginRight
	p.h = size.Height - marginTop - marginBottom

	r.drawGrid(p)
	r.drawTrace(p, samples)
	r.drawBeats(p, beats)
	r.drawStatus(p, powered, report, stats)
}

// drawGrid draws the duty and time grid.
func (r *scopeRenderer) drawGrid(p plot) {
	const numHLines = 5
	for i := range numHLines + 1 {
		y := p.y + float32(i)*p.h/numHLines
		r.addLine(colorGrid, 1, p.x, y, p.x+p.w, y)

		value := dutyMax - i*(dutyMax-dutyMin)/numHLines
		text := canvas.NewText(fmt.Sprintf("%d", value), colorAxis)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	const numVLines = 10
	span := p.xMax.Sub(p.xMin)
	for i := range numVLines + 1 {
		x := p.x + float32(i)*p.w/numVLines
		r.addLine(colorGrid, 1, x, p.y, x, p.y+p.h)

		offset := span * time.Duration(i) / numVLines
		text := canvas.NewText(formatTime(offset), colorAxis)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+5))
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws the LED output as a step plot. Blink codes and the
// heartbeat use different colours.
func (r *scopeRenderer) drawTrace(p plot, samples []sim.Sample) {
	for i := range len(samples) - 1 {
		a, b := samples[i], samples[i+1]
		c := colorPWM
		if a.Mode == sim.Digital {
			c = colorDigital
		}
		x1, x2 := p.xAt(a.Timestamp), p.xAt(b.Timestamp)
		r.addLine(c, 1.5, x1, p.yAt(a.Duty), x2, p.yAt(a.Duty))
		if a.Duty != b.Duty {
			r.addLine(c, 1.5, x2, p.yAt(a.Duty), x2, p.yAt(b.Duty))
		}
	}
}

// drawBeats marks the start and end of every beat and labels its peak.
func (r *scopeRenderer) drawBeats(p plot, beats []trace.Beat) {
	for _, b := range beats {
		if b.EndTime.Before(p.xMin) {
			continue
		}
		xStart, xEnd := p.xAt(b.StartTime), p.xAt(b.EndTime)
		r.addLine(colorBeat, 1, xStart, p.y, xStart, p.y+p.h)
		r.addLine(colorBeat, 1, xEnd, p.y, xEnd, p.y+p.h)

		text := canvas.NewText(fmt.Sprintf("%d", b.Peak), colorPWM)
		text.TextSize = 12
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos((xStart+xEnd)/2-15, p.yAt(b.Peak)-18))
		r.objects = append(r.objects, text)
	}
}

// drawStatus prints the startup report and trace statistics above the plot.
func (r *scopeRenderer) drawStatus(p plot, powered bool, report *startup.Result, stats trace.Stats) {
	text := canvas.NewText(statusLine(powered, report, stats), colorStatus)
	text.TextSize = 11
	text.Alignment = fyne.TextAlignLeading
	text.Move(fyne.NewPos(p.x, 10))
	r.objects = append(r.objects, text)
}

func (r *scopeRenderer) addLine(c color.Color, width float32, x1, y1, x2, y2 float32) {
	line := canvas.NewLine(c)
	line.Position1 = fyne.NewPos(x1, y1)
	line.Position2 = fyne.NewPos(x2, y2)
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func statusLine(powered bool, report *startup.Result, stats trace.Stats) string {
	if !powered {
		return "powered off"
	}
	if report == nil {
		return "starting up"
	}
	line := fmt.Sprintf("battery %.2fV (%.0f%%, %d blinks)  preset %d x%.1f",
		report.Battery.Voltage, report.Battery.Percent, report.Battery.Blinks,
		report.Index, report.Multiplier)
	if stats.BPM > 0 {
		line += fmt.Sprintf("  %.1f bpm", stats.BPM)
	}
	return line
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
