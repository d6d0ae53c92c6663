package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/hw"
)

// Run configures out for PWM and then, once per tick, writes the engine's
// value and sleeps. The value is written every tick even when unchanged.
// Run only returns when clk refuses to sleep, typically on ctx cancellation.
func Run(ctx context.Context, e *Engine, out hw.PWMOut, clk clock.Clock, tick time.Duration) error {
	if err := out.ConfigurePWM(); err != nil {
		return fmt.Errorf("failed to configure PWM: %w", err)
	}
	if tick <= 0 {
		tick = time.Millisecond
	}

	for {
		out.SetDuty(e.Tick())
		if err := clk.Sleep(ctx, tick); err != nil {
			return err
		}
	}
}
