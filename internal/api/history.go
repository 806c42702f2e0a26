package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/engine"
)

// HistoryPoint is one dated net-worth observation with its change against the
// previous stored snapshot.
type HistoryPoint struct {
	Date      time.Time       `json:"date"`
	NetWorth  decimal.Decimal `json:"netWorth"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"changePct"`
}

// GetNetWorthHistory handles GET /api/v1/networth/history.
func (h *Handler) GetNetWorthHistory(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 365
	limit := 90
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	snapshots, err := h.snapshots.List(r.Context(), h.ownerKey, limit)
	if err != nil {
		slog.Error("failed to list snapshots for history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// List returns newest first; walk oldest first so each point sees its
	// predecessor.
	points := make([]HistoryPoint, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		var summary engine.Summary
		if err := json.Unmarshal(snapshots[i].Data, &summary); err != nil {
			slog.Warn("skipping malformed snapshot", "date", snapshots[i].SnapshotDate, "error", err)
			continue
		}

		point := HistoryPoint{
			Date:      snapshots[i].SnapshotDate,
			NetWorth:  summary.NetWorth,
			Change:    decimal.Zero,
			ChangePct: decimal.Zero,
		}
		if len(points) > 0 {
			prev := points[len(points)-1].NetWorth
			point.Change = summary.NetWorth.Sub(prev)
			if !prev.IsZero() {
				point.ChangePct = point.Change.Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
			}
		}
		points = append(points, point)
	}

	writeJSON(w, http.StatusOK, points)
}
