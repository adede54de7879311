package worker

import (
	"context"
	"log/slog"
	"time"
)

// SnapshotWriter saves the current ledger state somewhere durable.
// Satisfied by service.LedgerService.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context) error
}

// Autosave persists the ledger on a fixed interval until the context is
// canceled, then writes one final snapshot so a clean shutdown never
// loses the last few changes.
func Autosave(ctx context.Context, writer SnapshotWriter, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Autosave loop started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			// Final save uses a fresh context; the loop's is already dead.
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := writer.SaveSnapshot(saveCtx); err != nil {
				slog.Error("Final autosave failed", "error", err)
			}
			cancel()
			slog.Info("Autosave loop stopped")
			return
		case <-ticker.C:
			if err := writer.SaveSnapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Autosave failed", "error", err)
			}
		}
	}
}
