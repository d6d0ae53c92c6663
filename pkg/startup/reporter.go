// Package startup implements the power-on report: battery level and active
// brightness preset, both signalled as LED blink codes before the heartbeat
// starts.
package startup

import (
	"context"
	"errors"
	"time"

	"github.com/itohio/goheartbeat/pkg/battery"
	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/hw"
	"github.com/itohio/goheartbeat/pkg/nvstore"
	"github.com/itohio/goheartbeat/pkg/preset"
)

// Result is what the report hands over to the heartbeat engine.
type Result struct {
	Battery    battery.Reading
	Stored     byte    // Raw value read from the cell
	Index      int     // Preset index active for this session
	Multiplier float32 // Brightness multiplier of Index
}

// Reporter runs the power-on sequence once.
type Reporter struct {
	cfg  *config.Config
	led  hw.DigitalOut
	adc  hw.AnalogIn
	cell nvstore.Cell
	clk  clock.Clock
}

// New creates a Reporter.
func New(cfg *config.Config, led hw.DigitalOut, adc hw.AnalogIn, cell nvstore.Cell, clk clock.Clock) *Reporter {
	return &Reporter{
		cfg:  cfg,
		led:  led,
		adc:  adc,
		cell: cell,
		clk:  clk,
	}
}

// Run performs the power-on sequence:
//  1. wait for the supply to settle
//  2. configure the LED pin and the battery sense input
//  3. measure the battery
//  4. read the preset index, clamp it and write back the next one
//  5. blink the battery level, pause, blink the preset (index+1) at double rate
//  6. settle before the heartbeat takes over
//
// A storage failure does not stop the sequence; it is returned alongside a
// valid Result. Only a cancelled context (or stopped clock) aborts Run.
func (r *Reporter) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := r.clk.Sleep(ctx, r.cfg.Startup.Stabilize); err != nil {
		return res, err
	}

	r.led.ConfigureOutput()
	r.adc.ConfigureInput()

	res.Battery = battery.Measure(&r.cfg.Battery, r.adc.Read())

	index, stored, storeErr := preset.Rotate(r.cell, len(r.cfg.Presets))
	res.Index = index
	res.Stored = stored
	res.Multiplier = preset.Multiplier(r.cfg.Presets, index)

	blink := r.cfg.Startup.Blink
	if err := Blink(ctx, r.led, r.clk, res.Battery.Blinks, blink); err != nil {
		return res, err
	}
	if err := r.clk.Sleep(ctx, r.cfg.Startup.Pause); err != nil {
		return res, err
	}
	if err := Blink(ctx, r.led, r.clk, res.Index+1, blink/2); err != nil {
		return res, err
	}
	if err := r.clk.Sleep(ctx, r.cfg.Startup.Settle); err != nil {
		return res, err
	}

	return res, storeErr
}

// Blink pulses led fully on and off count times, holding each level for delay.
func Blink(ctx context.Context, led hw.DigitalOut, clk clock.Clock, count int, delay time.Duration) error {
	for range count {
		led.High()
		if err := clk.Sleep(ctx, delay); err != nil {
			led.Low()
			return err
		}
		led.Low()
		if err := clk.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// Aborted reports whether err came from cancellation rather than storage.
func Aborted(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, clock.ErrStopped)
}
