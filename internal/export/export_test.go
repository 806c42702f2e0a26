package export

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
	"github.com/evetools/hangarstat/internal/snapshot"
)

const testOwnerKey = "character:90000001"

type mockRepo struct {
	nearest    *snapshot.Snapshot
	nearestErr error
}

func (m *mockRepo) Save(_ context.Context, _ int, _ time.Time, _ json.RawMessage) error {
	return nil
}

func (m *mockRepo) GetLatest(_ context.Context, _ string) (*snapshot.Snapshot, error) {
	return nil, snapshot.ErrNotFound
}

func (m *mockRepo) GetByDate(_ context.Context, _ string, _ time.Time) (*snapshot.Snapshot, error) {
	return nil, snapshot.ErrNotFound
}

func (m *mockRepo) GetNearestBefore(_ context.Context, _ string, _ time.Time) (*snapshot.Snapshot, error) {
	if m.nearestErr != nil {
		return nil, m.nearestErr
	}
	return m.nearest, nil
}

func (m *mockRepo) List(_ context.Context, _ string, _ int) ([]snapshot.Snapshot, error) {
	return nil, nil
}

func (m *mockRepo) GetOwnerID(_ context.Context, _ string) (int, error) {
	return 1, nil
}

func (m *mockRepo) EnsureOwner(_ context.Context, _, _ string) (int, error) {
	return 1, nil
}

type mockWriter struct {
	rows []ModeRow
}

func (m *mockWriter) Write(_ context.Context, _ time.Time, rows []ModeRow) error {
	m.rows = rows
	return nil
}

func TestExportComputesWeekChange(t *testing.T) {
	historical := engine.Summary{
		Modes: []engine.ModeTotals{
			{Mode: domain.ModeAll, TotalValue: decimal.NewFromInt(1000)},
		},
	}
	data, _ := json.Marshal(historical)
	repo := &mockRepo{nearest: &snapshot.Snapshot{Data: data}}
	writer := &mockWriter{}
	svc := NewService(repo, writer, testOwnerKey)

	current := engine.Summary{
		GeneratedAt: time.Now().UTC(),
		Modes: []engine.ModeTotals{
			{Mode: domain.ModeAll, TotalCount: 10, TotalValue: decimal.NewFromInt(1500), TotalVolume: decimal.NewFromInt(30)},
		},
	}
	if err := svc.Export(context.Background(), current); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(writer.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(writer.rows))
	}
	row := writer.rows[0]
	if row.WeekChange == nil {
		t.Fatal("expected week change to be computed")
	}
	if got := row.WeekChange.String(); got != "0.5" {
		t.Errorf("week change = %s, want 0.5", got)
	}
}

func TestExportWithoutHistoryLeavesChangesNil(t *testing.T) {
	repo := &mockRepo{nearestErr: snapshot.ErrNotFound}
	writer := &mockWriter{}
	svc := NewService(repo, writer, testOwnerKey)

	current := engine.Summary{
		Modes: []engine.ModeTotals{
			{Mode: domain.ModeAll, TotalValue: decimal.NewFromInt(1500)},
		},
	}
	if err := svc.Export(context.Background(), current); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if writer.rows[0].WeekChange != nil || writer.rows[0].MonthChange != nil {
		t.Error("expected nil changes without history")
	}
}

func TestExportZeroHistoricalValueLeavesChangeNil(t *testing.T) {
	historical := engine.Summary{
		Modes: []engine.ModeTotals{
			{Mode: domain.ModeAll, TotalValue: decimal.Zero},
		},
	}
	data, _ := json.Marshal(historical)
	repo := &mockRepo{nearest: &snapshot.Snapshot{Data: data}}
	writer := &mockWriter{}
	svc := NewService(repo, writer, testOwnerKey)

	current := engine.Summary{
		Modes: []engine.ModeTotals{
			{Mode: domain.ModeAll, TotalValue: decimal.NewFromInt(1500)},
		},
	}
	if err := svc.Export(context.Background(), current); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writer.rows[0].WeekChange != nil {
		t.Error("expected nil change against zero historical value")
	}
}

func TestBuildNetWorthLayout(t *testing.T) {
	week := decimal.NewFromFloat(0.5)
	rows := []ModeRow{
		{Mode: domain.ModeAll, TotalCount: 5, TotalValue: decimal.NewFromInt(5400), TotalVolume: decimal.NewFromInt(12), WeekChange: &week},
		{Mode: domain.ModeShips, TotalCount: 1, TotalValue: decimal.NewFromInt(300000)},
	}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	values := buildNetWorth(at, rows)
	if len(values) != 4 {
		t.Fatalf("row count = %d, want 4", len(values))
	}
	if values[0][1] != "2025-06-01 12:00" {
		t.Errorf("generated cell = %v", values[0][1])
	}
	if values[2][0] != "all" || values[2][2] != 5400.0 {
		t.Errorf("all row = %v", values[2])
	}
	if values[3][4] != nil {
		t.Errorf("ships week change = %v, want nil", values[3][4])
	}
}

func TestBuildLogRow(t *testing.T) {
	rows := []ModeRow{
		{Mode: domain.ModeAll, TotalValue: decimal.NewFromInt(5400)},
		{Mode: domain.ModeOrders, TotalValue: decimal.NewFromInt(2400)},
	}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	logRow := buildLogRow(at, rows)
	if len(logRow) != 3 {
		t.Fatalf("cell count = %d, want 3", len(logRow))
	}
	if logRow[0] != "2025-06-01" {
		t.Errorf("date cell = %v", logRow[0])
	}
	if logRow[2] != 2400.0 {
		t.Errorf("orders cell = %v", logRow[2])
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := t.TempDir() + "/tree.xlsx"
	summary := engine.Summary{
		OwnerKey:    testOwnerKey,
		GeneratedAt: time.Now().UTC(),
		Modes: []engine.ModeTotals{
			{Mode: domain.ModeAll, TotalCount: 2, TotalValue: decimal.NewFromInt(100), TotalVolume: decimal.NewFromInt(3)},
		},
	}
	roots := []*domain.TreeNode{
		{
			ID: "region:10000002", NodeType: domain.NodeRegion, Name: "The Forge",
			TotalCount: 2, TotalValue: decimal.NewFromInt(100), TotalVolume: decimal.NewFromInt(3),
			Children: []*domain.TreeNode{
				{ID: "region:10000002|system:30000142", NodeType: domain.NodeSystem, Name: "Jita",
					TotalCount: 2, TotalValue: decimal.NewFromInt(100), TotalVolume: decimal.NewFromInt(3)},
			},
		},
	}

	if err := WriteWorkbook(path, summary, roots); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
