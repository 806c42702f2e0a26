// Package export pushes net-worth summaries to external spreadsheets: a
// Google Sheets dashboard refreshed after each snapshot, and on-demand xlsx
// workbooks of the aggregated tree.
package export

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
	"github.com/evetools/hangarstat/internal/snapshot"
)

// ModeRow holds one aggregation mode's totals with period-over-period changes.
type ModeRow struct {
	Mode        domain.Mode
	TotalCount  int64
	TotalValue  decimal.Decimal
	TotalVolume decimal.Decimal
	WeekChange  *decimal.Decimal
	MonthChange *decimal.Decimal
}

// SheetWriter writes mode rows to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, generatedAt time.Time, rows []ModeRow) error
}

// Service builds mode rows from a summary and delegates writing to a SheetWriter.
type Service struct {
	snapshots snapshot.Repository
	writer    SheetWriter
	ownerKey  string
}

// NewService creates a new export Service.
func NewService(snapshots snapshot.Repository, writer SheetWriter, ownerKey string) *Service {
	return &Service{snapshots: snapshots, writer: writer, ownerKey: ownerKey}
}

// Export computes per-mode rows with weekly and monthly changes and writes
// them to the sheet. Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, summary engine.Summary) error {
	weekAgo := s.historicalModes(ctx, 7)
	monthAgo := s.historicalModes(ctx, 30)

	rows := make([]ModeRow, 0, len(summary.Modes))
	for _, m := range summary.Modes {
		rows = append(rows, ModeRow{
			Mode:        m.Mode,
			TotalCount:  m.TotalCount,
			TotalValue:  m.TotalValue,
			TotalVolume: m.TotalVolume,
			WeekChange:  computeChange(m.Mode, m.TotalValue, weekAgo),
			MonthChange: computeChange(m.Mode, m.TotalValue, monthAgo),
		})
	}

	return s.writer.Write(ctx, summary.GeneratedAt, rows)
}

// historicalModes loads the summary stored closest before the given number of
// days ago, keyed by mode. Missing history is not an error.
func (s *Service) historicalModes(ctx context.Context, daysAgo int) map[domain.Mode]decimal.Decimal {
	pastDate := time.Now().UTC().AddDate(0, 0, -daysAgo)
	snap, err := s.snapshots.GetNearestBefore(ctx, s.ownerKey, pastDate)
	if err != nil {
		slog.Warn("export: historical snapshot unavailable", "daysAgo", daysAgo, "error", err)
		return nil
	}

	var summary engine.Summary
	if err := json.Unmarshal(snap.Data, &summary); err != nil {
		slog.Warn("export: failed to unmarshal historical snapshot", "daysAgo", daysAgo, "error", err)
		return nil
	}

	byMode := make(map[domain.Mode]decimal.Decimal, len(summary.Modes))
	for _, m := range summary.Modes {
		byMode[m.Mode] = m.TotalValue
	}
	return byMode
}

// computeChange returns (current - historical) / historical, or nil when no
// usable historical value exists.
func computeChange(mode domain.Mode, current decimal.Decimal, byMode map[domain.Mode]decimal.Decimal) *decimal.Decimal {
	if byMode == nil {
		return nil
	}
	hist, ok := byMode[mode]
	if !ok || hist.IsZero() {
		return nil
	}
	pct := current.Sub(hist).Div(hist)
	return &pct
}
