package cron

import (
	"context"
	"log/slog"
	"time"
)

// DraftSweeper is satisfied by application.DraftService.
type DraftSweeper interface {
	Sweep(ctx context.Context, retention time.Duration) (int, error)
}

// StartDraftSweepTask purges stale drafts now and then every interval until
// ctx is cancelled. A non-positive interval disables the task.
func StartDraftSweepTask(ctx context.Context, sweeper DraftSweeper, interval, retention time.Duration, logger *slog.Logger) bool {
	if interval <= 0 {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		logger.Info("starting background draft sweep", "interval", interval, "retention", retention)

		runSweep(ctx, sweeper, retention, logger)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSweep(ctx, sweeper, retention, logger)
			}
		}
	}()
	return true
}

func runSweep(ctx context.Context, sweeper DraftSweeper, retention time.Duration, logger *slog.Logger) {
	n, err := sweeper.Sweep(ctx, retention)
	if err != nil {
		logger.Error("scheduled draft sweep failed", "error", err)
		return
	}
	logger.Info("scheduled draft sweep completed", "deleted", n)
}
