package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/nvstore"
	"github.com/itohio/goheartbeat/pkg/scope"
	"github.com/itohio/goheartbeat/pkg/sim"
	"github.com/itohio/goheartbeat/pkg/startup"
	"github.com/itohio/goheartbeat/pkg/trace"
)

// session is one power cycle of the simulated board.
type session struct {
	cancel  context.CancelFunc
	board   *sim.Board
	powered chan struct{} // Closed when the firmware loop returns
	traced  chan struct{} // Closed when the recorder has drained the board
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	cell        *nvstore.File
	recorder    *trace.Recorder
	scopeWidget *scope.ScopeWidget

	powerBtn    *widget.Button
	statusLabel *widget.Label
	voltage     *widget.Slider

	mu      sync.Mutex
	current *session
}

func runGUI(cfg *config.Config) {
	application := app.NewWithID("com.itohio.goheartbeat")

	window := application.NewWindow("Heartbeat Simulator")
	window.Resize(fyne.NewSize(1200, 600))
	window.CenterOnScreen()

	state := &appState{
		cfg:         cfg,
		cell:        nvstore.NewFile(cfg.Sim.StorePath),
		recorder:    trace.New(&cfg.Sim),
		scopeWidget: scope.New(cfg),
	}
	state.scopeWidget.PowerOff()

	// Redraw at most ~30 times per simulated second.
	state.recorder.SetUpdateInterval(33 * time.Millisecond)
	state.recorder.OnUpdate(func(samples []sim.Sample, beats []trace.Beat) {
		stats := state.recorder.Stats()
		fyne.Do(func() {
			state.scopeWidget.UpdateData(samples, beats, stats)
		})
	})

	toolbar := createToolbar(state)

	window.SetContent(container.NewBorder(toolbar, nil, nil, nil, state.scopeWidget))
	window.SetOnClosed(func() {
		state.powerOff()
		_ = state.cell.Close()
	})
	window.ShowAndRun()
}

// createToolbar creates the power button, the battery voltage control and the status line.
func createToolbar(state *appState) fyne.CanvasObject {
	state.powerBtn = widget.NewButtonWithIcon("Power on", theme.MediaPlayIcon(), func() {
		state.togglePower()
	})

	b := state.cfg.Battery
	state.voltage = widget.NewSlider(float64(b.MinVoltage)-0.5, float64(b.MaxVoltage)+0.5)
	state.voltage.Step = 0.05
	state.voltage.SetValue(float64(state.cfg.Sim.BatteryVoltage))
	voltageLabel := widget.NewLabel(formatVoltage(state.voltage.Value))
	state.voltage.OnChanged = func(v float64) {
		voltageLabel.SetText(formatVoltage(v))
	}

	state.statusLabel = widget.NewLabel("powered off")

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(state.powerBtn, state.statusLabel),
		container.NewHBox(widget.NewLabel("Battery"), container.NewGridWrap(fyne.NewSize(200, 36), state.voltage), voltageLabel),
		nil,
	)
}

func (s *appState) togglePower() {
	s.mu.Lock()
	on := s.current != nil
	s.mu.Unlock()

	if on {
		s.powerOff()
		s.powerBtn.SetIcon(theme.MediaPlayIcon())
		s.powerBtn.SetText("Power on")
		s.statusLabel.SetText("powered off")
		s.scopeWidget.PowerOff()
		return
	}

	s.powerOn()
	s.powerBtn.SetIcon(theme.MediaStopIcon())
	s.powerBtn.SetText("Power off")
}

// powerOn boots the firmware on a fresh board, reading the preset cell like a
// real power-up does.
func (s *appState) powerOn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	clk := clock.NewPacer(s.cfg.Sim.Speed)
	board := sim.NewBoard(s.cfg, clk)
	board.SetBatteryVoltage(float32(s.voltage.Value))

	sess := &session{
		cancel:  cancel,
		board:   board,
		powered: make(chan struct{}),
		traced:  make(chan struct{}),
	}
	s.current = sess

	s.recorder.Reset()
	s.recorder.ResetShutdown()
	s.scopeWidget.PowerOn()
	s.statusLabel.SetText("starting up")

	go func() {
		defer close(sess.traced)
		s.recorder.Process(board.Samples())
	}()

	go func() {
		defer close(sess.powered)
		defer func() { _ = board.Close() }()

		err := sim.Power(ctx, s.cfg, board, s.cell, clk, func(r startup.Result) {
			fyne.Do(func() {
				s.scopeWidget.SetReport(r)
				s.statusLabel.SetText(fmt.Sprintf("preset %d of %d", r.Index+1, len(s.cfg.Presets)))
			})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("firmware stopped")
		}
	}()
}

// powerOff cuts power and waits for the firmware and the recorder to stop.
func (s *appState) powerOff() {
	s.mu.Lock()
	sess := s.current
	s.current = nil
	s.mu.Unlock()

	if sess == nil {
		return
	}
	sess.cancel()
	<-sess.powered
	<-sess.traced
	log.WithField("writes", sess.board.Writes()).Debug("powered off")
}

func formatVoltage(v float64) string {
	return fmt.Sprintf("%.2f V", v)
}
