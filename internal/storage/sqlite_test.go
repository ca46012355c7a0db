//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"matingcore/internal/diagnostics"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "matingcore.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := diagnostics.RunSummary{
		RunID:      "run-1",
		SchemeName: "RandomMating",
		StartedAt:  time.Unix(1000, 0).UTC(),
		Generations: []diagnostics.GenerationRecord{
			{Generation: 0, SubPopSizes: []int{10}, TotalSize: 10, Committed: true},
		},
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.RunID)
	}
	if loaded.SchemeName != run.SchemeName || len(loaded.Generations) != 1 {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	if err := store.AppendGeneration(ctx, run.RunID, diagnostics.GenerationRecord{Generation: 1, TotalSize: 10, Committed: true}); err != nil {
		t.Fatalf("append generation: %v", err)
	}
	loaded, _, err = store.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("get run after append: %v", err)
	}
	if len(loaded.Generations) != 2 {
		t.Fatalf("expected 2 generations, got %d", len(loaded.Generations))
	}

	ids, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(ids) != 1 || ids[0] != run.RunID {
		t.Fatalf("unexpected run list: %v", ids)
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "matingcore.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("first init: %v", err)
	}
	run := diagnostics.RunSummary{RunID: "persisted-run", SchemeName: "BinomialSelection"}
	if err := first.SaveRun(ctx, run); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})

	loaded, ok, err := second.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !ok || loaded.RunID != run.RunID {
		t.Fatalf("expected persisted run, got ok=%t value=%+v", ok, loaded)
	}
}
