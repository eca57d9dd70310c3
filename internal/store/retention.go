package store

import (
	"context"
	"log/slog"
	"time"
)

const retentionSweepInterval = time.Hour

// StartRetentionWorker runs a background goroutine that periodically
// deletes transcript entries older than the retention window. It stops
// when ctx is canceled.
func StartRetentionWorker(ctx context.Context, repo Repository, retention time.Duration) {
	ticker := time.NewTicker(retentionSweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Transcript retention worker started",
			"interval", retentionSweepInterval, "retention", retention)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, repo, retention)
			case <-ctx.Done():
				slog.Info("Transcript retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ctx context.Context, repo Repository, retention time.Duration) {
	deleted, err := repo.DeleteTranscriptsBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		slog.Error("Retention worker failed to delete old transcripts", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Retention worker deleted old transcripts", "count", deleted)
	}
}
