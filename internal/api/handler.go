package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
	"github.com/evetools/hangarstat/internal/snapshot"
)

// AssetView exposes the cached resolution pass for HTTP consumption.
type AssetView interface {
	Result() engine.Result
	Tree(mode domain.Mode, search, category string) []*domain.TreeNode
	Summarize() engine.Summary
}

// SnapshotStore exposes net-worth snapshot retrieval and generation.
type SnapshotStore interface {
	Generate(ctx context.Context, ownerKey string, date time.Time) (engine.Summary, error)
	GetLatest(ctx context.Context, ownerKey string) (*snapshot.Snapshot, error)
	GetByDate(ctx context.Context, ownerKey string, date time.Time) (*snapshot.Snapshot, error)
	List(ctx context.Context, ownerKey string, limit int) ([]snapshot.Snapshot, error)
}

// Handler provides the HTTP endpoints of the asset API.
type Handler struct {
	view      AssetView
	snapshots SnapshotStore
	ownerKey  string
}

// NewHandler creates a new API handler serving one tracked owner.
func NewHandler(view AssetView, snapshots SnapshotStore, ownerKey string) *Handler {
	return &Handler{view: view, snapshots: snapshots, ownerKey: ownerKey}
}

// GetAssets handles GET /api/v1/assets.
func (h *Handler) GetAssets(w http.ResponseWriter, r *http.Request) {
	result := h.view.Result()
	if result.ComputedAt.IsZero() {
		writeError(w, http.StatusServiceUnavailable, "no resolution pass completed yet")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetTree handles GET /api/v1/tree?mode=&search=&category=.
func (h *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	if h.view.Result().ComputedAt.IsZero() {
		writeError(w, http.StatusServiceUnavailable, "no resolution pass completed yet")
		return
	}

	q := r.URL.Query()
	mode := domain.ParseMode(q.Get("mode"))
	roots := h.view.Tree(mode, q.Get("search"), q.Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":  mode,
		"roots": roots,
	})
}

// GetSummary handles GET /api/v1/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.view.Summarize()
	if summary.GeneratedAt.IsZero() {
		writeError(w, http.StatusServiceUnavailable, "no resolution pass completed yet")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetLatestSnapshot handles GET /api/v1/snapshots/latest.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	s, err := h.snapshots.GetLatest(r.Context(), h.ownerKey)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshots found")
			return
		}
		slog.Error("failed to get latest snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GetSnapshotByDate handles GET /api/v1/snapshots/{date}.
func (h *Handler) GetSnapshotByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.PathValue("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	s, err := h.snapshots.GetByDate(r.Context(), h.ownerKey, date)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found for date")
			return
		}
		slog.Error("failed to get snapshot by date", "date", dateStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// ListSnapshots handles GET /api/v1/snapshots.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 365
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	snapshots, err := h.snapshots.List(r.Context(), h.ownerKey, limit)
	if err != nil {
		slog.Error("failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// Refresh handles POST /api/v1/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.snapshots.Generate(r.Context(), h.ownerKey, time.Now().UTC())
	if err != nil {
		slog.Error("failed to refresh owner", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to refresh")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
