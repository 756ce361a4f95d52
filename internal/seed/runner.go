package seed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentlab/pkg/logger"
)

// Run generates histories from ref and submits them to cfg.BaseURL.
// Each player's sessions are posted in order by one worker; players are
// spread over cfg.Workers workers. Failed submissions are counted and
// logged, not fatal; Run only fails on cancellation or a bad config.
func Run(ctx context.Context, ref Reference, cfg Config) (Stats, error) {
	if cfg.BaseURL == "" {
		return Stats{}, fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()
	log := logger.Named("seed")
	start := time.Now()

	histories := Generate(ref, cfg)
	stats := Stats{Players: len(histories), Generated: len(histories) * cfg.Sessions}
	log.Info(ctx, "generated synthetic histories",
		logger.Int("players", stats.Players),
		logger.Int("sessions", cfg.Sessions),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	var accepted, duplicates, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, history := range histories {
		g.Go(func() error {
			for i := range history {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcome, err := client.Submit(gctx, &history[i])
				switch outcome {
				case OutcomeAccepted:
					accepted.Add(1)
				case OutcomeDuplicate:
					duplicates.Add(1)
				case OutcomeFailed:
					failed.Add(1)
					log.Warn(gctx, "submission failed",
						logger.String("player_id", history[i].PlayerID),
						logger.Error(err),
					)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	stats.Accepted = int(accepted.Load())
	stats.Duplicates = int(duplicates.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = time.Since(start)
	log.Info(ctx, "seeding finished",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
	)
	return stats, err
}
