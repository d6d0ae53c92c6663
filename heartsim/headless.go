package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/nvstore"
	"github.com/itohio/goheartbeat/pkg/sim"
	"github.com/itohio/goheartbeat/pkg/startup"
	"github.com/itohio/goheartbeat/pkg/trace"
)

// summary describes one headless power cycle.
type summary struct {
	Report  startup.Result
	Elapsed time.Duration
	Writes  int
	Dropped int
	Stats   trace.Stats
}

// runHeadless runs a single power cycle for duration of simulated time as fast
// as possible. The sample buffer is sized so that no write is dropped.
func runHeadless(ctx context.Context, cfg *config.Config, duration time.Duration) (summary, error) {
	var sum summary

	local := *cfg
	local.Sim.Buffer = max(cfg.Sim.Buffer, int(duration/cfg.Heartbeat.Tick)+1024)
	cfg = &local

	cell := nvstore.NewFile(cfg.Sim.StorePath)
	defer func() { _ = cell.Close() }()

	clk := clock.NewVirtual(time.Time{}, duration)
	board := sim.NewBoard(cfg, clk)
	recorder := trace.New(&cfg.Sim)

	traced := make(chan struct{})
	go func() {
		defer close(traced)
		recorder.Process(board.Samples())
	}()

	err := sim.Power(ctx, cfg, board, cell, clk, func(r startup.Result) { sum.Report = r })
	_ = board.Close()
	<-traced

	sum.Elapsed = clk.Elapsed()
	sum.Writes = board.Writes()
	sum.Dropped = board.Dropped()
	sum.Stats = recorder.Stats()

	if errors.Is(err, clock.ErrStopped) || errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return sum, fmt.Errorf("power cycle: %w", err)
	}

	log.WithFields(log.Fields{
		"elapsed": sum.Elapsed,
		"writes":  sum.Writes,
		"dropped": sum.Dropped,
		"beats":   sum.Stats.Beats,
		"bpm":     sum.Stats.BPM,
		"min":     sum.Stats.Min,
		"max":     sum.Stats.Max,
		"preset":  sum.Report.Index,
		"store":   cell.Path(),
	}).Info("simulation finished")
	return sum, nil
}
