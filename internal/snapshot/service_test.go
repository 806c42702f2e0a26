package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/engine"
)

type mockSummarySource struct {
	summary engine.Summary
	err     error
}

func (m *mockSummarySource) RefreshOwner(_ context.Context) (engine.Summary, error) {
	return m.summary, m.err
}

type mockRepo struct {
	ownerID   int
	ownerErr  error
	saveErr   error
	savedData json.RawMessage
	savedDate time.Time
	latest    *Snapshot
	latestErr error
	byDate    *Snapshot
	byDateErr error
	list      []Snapshot
	listErr   error
}

func (m *mockRepo) Save(_ context.Context, _ int, date time.Time, data json.RawMessage) error {
	m.savedData = data
	m.savedDate = date
	return m.saveErr
}

func (m *mockRepo) GetLatest(_ context.Context, _ string) (*Snapshot, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return m.latest, nil
}

func (m *mockRepo) GetByDate(_ context.Context, _ string, _ time.Time) (*Snapshot, error) {
	if m.byDateErr != nil {
		return nil, m.byDateErr
	}
	return m.byDate, nil
}

func (m *mockRepo) GetNearestBefore(_ context.Context, _ string, _ time.Time) (*Snapshot, error) {
	if m.byDateErr != nil {
		return nil, m.byDateErr
	}
	return m.byDate, nil
}

func (m *mockRepo) List(_ context.Context, _ string, _ int) ([]Snapshot, error) {
	return m.list, m.listErr
}

func (m *mockRepo) GetOwnerID(_ context.Context, _ string) (int, error) {
	return m.ownerID, m.ownerErr
}

func (m *mockRepo) EnsureOwner(_ context.Context, _, _ string) (int, error) {
	return m.ownerID, m.ownerErr
}

func TestGenerateSuccess(t *testing.T) {
	summary := engine.Summary{
		OwnerKey: "character:90000001",
		NetWorth: decimal.NewFromInt(5400),
	}
	repo := &mockRepo{ownerID: 1}
	source := &mockSummarySource{summary: summary}
	svc := NewService(source, repo)

	result, err := svc.Generate(context.Background(), "character:90000001", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.NetWorth.String(); got != "5400" {
		t.Errorf("NetWorth = %s, want 5400", got)
	}
	if repo.savedData == nil {
		t.Fatal("expected data to be saved")
	}

	var stored engine.Summary
	if err := json.Unmarshal(repo.savedData, &stored); err != nil {
		t.Fatalf("stored data is not a valid summary: %v", err)
	}
	if stored.OwnerKey != "character:90000001" {
		t.Errorf("stored OwnerKey = %q", stored.OwnerKey)
	}
}

func TestGenerateRefreshError(t *testing.T) {
	repo := &mockRepo{ownerID: 1}
	source := &mockSummarySource{err: errors.New("ESI unavailable")}
	svc := NewService(source, repo)

	_, err := svc.Generate(context.Background(), "character:90000001", time.Now())
	if err == nil {
		t.Fatal("expected error from refresh")
	}
}

func TestGenerateRepoSaveError(t *testing.T) {
	repo := &mockRepo{ownerID: 1, saveErr: errors.New("save failed")}
	source := &mockSummarySource{}
	svc := NewService(source, repo)

	_, err := svc.Generate(context.Background(), "character:90000001", time.Now())
	if err == nil {
		t.Fatal("expected error from repo save")
	}
}

func TestGenerateOwnerNotFound(t *testing.T) {
	repo := &mockRepo{ownerErr: ErrNotFound}
	source := &mockSummarySource{}
	svc := NewService(source, repo)

	_, err := svc.Generate(context.Background(), "character:99999999", time.Now())
	if err == nil {
		t.Fatal("expected error for unknown owner")
	}
}
