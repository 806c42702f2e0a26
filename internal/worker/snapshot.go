package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/evetools/hangarstat/internal/engine"
)

// SnapshotGenerator refreshes an owner and persists the resulting summary.
type SnapshotGenerator interface {
	Generate(ctx context.Context, ownerKey string, date time.Time) (engine.Summary, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, summary engine.Summary) error
}

// SnapshotWorker periodically refreshes the owner and stores net-worth
// snapshots.
type SnapshotWorker struct {
	generator SnapshotGenerator
	ownerKey  string
	interval  time.Duration
	hook      AfterSnapshotHook // optional
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional post-generation hook.
func NewSnapshotWorker(generator SnapshotGenerator, ownerKey string, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		generator: generator,
		ownerKey:  ownerKey,
		interval:  interval,
		hook:      hook,
	}
}

// runHook calls the post-generation hook if one is configured.
func (w *SnapshotWorker) runHook(ctx context.Context, summary engine.Summary) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, summary); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed")
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Run starts the snapshot worker loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting", "owner", w.ownerKey)

	// Generate immediately on startup
	if summary, err := w.generator.Generate(ctx, w.ownerKey, utcDate()); err != nil {
		slog.Error("SnapshotWorker: initial generation failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: initial generation completed", "netWorth", summary.NetWorth)
		w.runHook(ctx, summary)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			if summary, err := w.generator.Generate(ctx, w.ownerKey, utcDate()); err != nil {
				slog.Error("SnapshotWorker: generation failed", "error", err)
			} else {
				slog.Info("SnapshotWorker: generation completed", "netWorth", summary.NetWorth)
				w.runHook(ctx, summary)
			}
		}
	}
}
