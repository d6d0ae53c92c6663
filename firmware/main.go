//go:build rp2040 || rp2350

//go:generate tinygo flash -target=pico

package main

import (
	"context"
	"machine"

	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/heartbeat"
	"github.com/itohio/goheartbeat/pkg/startup"
)

func main() {
	cfg := config.Default()
	cfg.Battery.RefVoltage = ADC_REFERENCE_V
	cfg.Battery.DividerRatio = BATTERY_DIVIDER
	cfg.Battery.Resolution = 1 << ADC_BITS
	if err := cfg.Validate(); err != nil {
		println("invalid configuration:", err.Error())
	}
	ctx := context.Background()
	clk := clock.NewPacer(1)

	ledOut := &led{pin: PIN_LED, pwm: PWM_LED}
	sense := &batterySense{adc: machine.ADC{Pin: PIN_BATTERY}}

	res, err := startup.New(cfg, ledOut, sense, newFlashCell(), clk).Run(ctx)
	if err != nil {
		println("preset not saved:", err.Error())
	}
	println("battery:", res.Battery.Raw, "blinks:", res.Battery.Blinks, "preset:", res.Index)

	e := heartbeat.New(&cfg.Heartbeat, res.Multiplier)
	if err := heartbeat.Run(ctx, e, ledOut, clk, cfg.Heartbeat.Tick); err != nil {
		println("heartbeat stopped:", err.Error())
	}
	select {}
}
