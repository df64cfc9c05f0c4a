package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"house_crush/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFeedback_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Feedback{Message: "Love the match scores", UserAgent: "test-agent"}
	if err := store.AddFeedback(ctx, first); err != nil {
		t.Fatalf("AddFeedback: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected ID assigned on insert")
	}
	if err := store.AddFeedback(ctx, &models.Feedback{Message: "Add a map view"}); err != nil {
		t.Fatalf("AddFeedback: %v", err)
	}

	entries, err := store.RecentFeedback(ctx, 10)
	if err != nil {
		t.Fatalf("RecentFeedback: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			t.Errorf("entry %d missing created_at", e.ID)
		}
	}
}

func TestRuns_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &models.CollectRun{
		Provider:  "browser",
		Location:  "Toronto",
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	id, err := store.CreateRun(ctx, run)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := store.FinishRun(ctx, id, models.RunStatusCompleted, 12, 9); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Status != models.RunStatusCompleted || got.ListingsFound != 12 || got.ListingsKept != 9 {
		t.Errorf("unexpected run %+v", got)
	}
	if got.FinishedAt == nil {
		t.Error("expected finished_at set")
	}

	stats, err := store.ProviderStats(ctx, "browser")
	if err != nil {
		t.Fatalf("ProviderStats: %v", err)
	}
	if stats.TotalRuns != 1 || stats.TotalListings != 9 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.SuccessRate != 1.0 {
		t.Errorf("expected success rate 1.0, got %f", stats.SuccessRate)
	}
}
