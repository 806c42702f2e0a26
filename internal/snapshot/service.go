package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/evetools/hangarstat/internal/engine"
)

// SummarySource produces a fresh net-worth summary by refreshing the owner's
// record sets and recomputing the resolution pass.
type SummarySource interface {
	RefreshOwner(ctx context.Context) (engine.Summary, error)
}

// Service manages snapshot generation and retrieval.
type Service struct {
	source SummarySource
	repo   Repository
}

// NewService creates a new snapshot service.
func NewService(source SummarySource, repo Repository) *Service {
	return &Service{source: source, repo: repo}
}

// Generate refreshes the owner and stores the resulting summary under the
// given date, returning the summary.
func (s *Service) Generate(ctx context.Context, ownerKey string, date time.Time) (engine.Summary, error) {
	ownerID, err := s.repo.GetOwnerID(ctx, ownerKey)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("getting owner: %w", err)
	}

	summary, err := s.source.RefreshOwner(ctx)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("refreshing owner: %w", err)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("marshaling summary: %w", err)
	}

	if err := s.repo.Save(ctx, ownerID, date, data); err != nil {
		return engine.Summary{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return summary, nil
}

// GetLatest retrieves the most recent snapshot for the owner.
func (s *Service) GetLatest(ctx context.Context, ownerKey string) (*Snapshot, error) {
	return s.repo.GetLatest(ctx, ownerKey)
}

// GetByDate retrieves a snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, ownerKey string, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, ownerKey, date)
}

// List retrieves recent snapshots.
func (s *Service) List(ctx context.Context, ownerKey string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, ownerKey, limit)
}
