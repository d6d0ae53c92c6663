package sim

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/itohio/goheartbeat/pkg/clock"
	"github.com/itohio/goheartbeat/pkg/config"
	"github.com/itohio/goheartbeat/pkg/heartbeat"
	"github.com/itohio/goheartbeat/pkg/nvstore"
	"github.com/itohio/goheartbeat/pkg/startup"
)

// Power runs one power cycle on the board, the way the firmware does: the
// startup report, then the heartbeat engine until ctx is done or clk stops.
// report, if set, is called with the startup result before the engine starts.
func Power(ctx context.Context, cfg *config.Config, b *Board, cell nvstore.Cell, clk clock.Clock, report func(startup.Result)) error {
	res, err := startup.New(cfg, b, b, cell, clk).Run(ctx)
	if err != nil {
		if startup.Aborted(err) {
			return err
		}
		log.WithError(err).Warn("preset index not persisted")
	}

	log.WithFields(log.Fields{
		"raw":     res.Battery.Raw,
		"voltage": res.Battery.Voltage,
		"percent": res.Battery.Percent,
		"blinks":  res.Battery.Blinks,
		"stored":  res.Stored,
		"preset":  res.Index,
		"level":   res.Multiplier,
	}).Info("startup report")

	if report != nil {
		report(res)
	}

	e := heartbeat.New(&cfg.Heartbeat, res.Multiplier)
	return heartbeat.Run(ctx, e, b, clk, cfg.Heartbeat.Tick)
}
