// Command heartsim runs the heartbeat firmware against a simulated board and
// plots the LED output.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/itohio/goheartbeat/pkg/config"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("heartsim")
	}
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if err = opts.apply(cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithFields(log.Fields{
		"config":  opts.Config,
		"store":   cfg.Sim.StorePath,
		"speed":   cfg.Sim.Speed,
		"battery": cfg.Sim.BatteryVoltage,
		"clamp":   cfg.Heartbeat.ClampDuty,
	}).Debug("configuration loaded")

	if !opts.Headless {
		runGUI(cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err = runHeadless(ctx, cfg, opts.Duration); err != nil {
		log.WithError(err).Fatal("simulation failed")
	}
}
