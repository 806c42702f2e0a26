package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evetools/hangarstat/internal/engine"
)

type mockSnapshotGenerator struct {
	callCount atomic.Int32
}

func (m *mockSnapshotGenerator) Generate(_ context.Context, _ string, _ time.Time) (engine.Summary, error) {
	m.callCount.Add(1)
	return engine.Summary{}, nil
}

type mockExportHook struct {
	callCount atomic.Int32
}

func (m *mockExportHook) Export(_ context.Context, _ engine.Summary) error {
	m.callCount.Add(1)
	return nil
}

func TestSnapshotWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockSnapshotGenerator{}
	w := NewSnapshotWorker(mock, "character:90000001", 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 1 {
		t.Errorf("call count = %d, want >= 1", got)
	}
}

func TestSnapshotWorkerCallsHook(t *testing.T) {
	mock := &mockSnapshotGenerator{}
	hook := &mockExportHook{}
	w := NewSnapshotWorker(mock, "character:90000001", time.Hour, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := hook.callCount.Load(); got != 1 {
		t.Errorf("hook call count = %d, want 1", got)
	}
}

type mockPriceRefresher struct {
	callCount atomic.Int32
}

func (m *mockPriceRefresher) Refresh(_ context.Context) error {
	m.callCount.Add(1)
	return nil
}

func TestPriceWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockPriceRefresher{}
	w := NewPriceWorker(mock, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 1 {
		t.Errorf("call count = %d, want >= 1", got)
	}
}
