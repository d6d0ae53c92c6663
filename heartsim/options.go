package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/itohio/goheartbeat/pkg/config"
)

// options are the command line flags. Zero values leave the loaded config alone.
type options struct {
	Config         string
	Headless       bool
	Duration       time.Duration
	Speed          float64
	Store          string
	BatteryVoltage float64
	Clamp          bool
	Debug          bool
}

func parseArgs(args []string) (options, error) {
	var opts options

	a := kingpin.New(filepath.Base(os.Args[0]), "LED heartbeat firmware simulator")
	a.HelpFlag.Short('h')
	a.Flag("config", "Configuration file path").Short('c').Default("heartsim.yaml").StringVar(&opts.Config)
	a.Flag("headless", "Run one power cycle without a window").Default("false").BoolVar(&opts.Headless)
	a.Flag("duration", "Simulated run time in headless mode").Default("30s").DurationVar(&opts.Duration)
	a.Flag("speed", "Simulated seconds per wall-clock second").Default("0").Float64Var(&opts.Speed)
	a.Flag("store", "File holding the persisted preset index").Default("").StringVar(&opts.Store)
	a.Flag("battery-voltage", "Simulated battery pack voltage").Default("0").Float64Var(&opts.BatteryVoltage)
	a.Flag("clamp", "Saturate out-of-range duty values instead of wrapping").Default("false").BoolVar(&opts.Clamp)
	a.Flag("debug", "Log debug messages").Short('d').Default("false").BoolVar(&opts.Debug)

	if _, err := a.Parse(args); err != nil {
		return opts, fmt.Errorf("invalid command line arguments: %w", err)
	}
	if opts.Headless && opts.Duration <= 0 {
		return opts, fmt.Errorf("invalid command line arguments: --duration must be positive, got %v", opts.Duration)
	}
	return opts, nil
}

// apply overrides cfg with the flags that were set and revalidates it.
func (o options) apply(cfg *config.Config) error {
	if o.Speed > 0 {
		cfg.Sim.Speed = o.Speed
	}
	if o.Store != "" {
		cfg.Sim.StorePath = o.Store
	}
	if o.BatteryVoltage > 0 {
		cfg.Sim.BatteryVoltage = float32(o.BatteryVoltage)
	}
	if o.Clamp {
		cfg.Heartbeat.ClampDuty = true
	}
	return cfg.Validate()
}
