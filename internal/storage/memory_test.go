package storage

import (
	"context"
	"testing"
	"time"

	"matingcore/internal/diagnostics"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := diagnostics.RunSummary{
		RunID:      "run-1",
		SchemeName: "RandomMating",
		StartedAt:  time.Unix(0, 0).UTC(),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if loaded.SchemeName != "RandomMating" {
		t.Fatalf("unexpected run: %+v", loaded)
	}
}

func TestMemoryStoreAppendGeneration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := diagnostics.RunSummary{RunID: "run-1", SchemeName: "RandomMating"}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	gen := diagnostics.GenerationRecord{
		Generation:  0,
		SubPopSizes: []int{10},
		TotalSize:   10,
		FamSizes:    []int{1, 1, 1},
		Committed:   true,
	}
	if err := store.AppendGeneration(ctx, "run-1", gen); err != nil {
		t.Fatalf("append generation: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if len(loaded.Generations) != 1 || loaded.Generations[0].TotalSize != 10 {
		t.Fatalf("unexpected generations: %+v", loaded.Generations)
	}
}

func TestMemoryStoreAppendGenerationUnknownRun(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	err := store.AppendGeneration(ctx, "missing", diagnostics.GenerationRecord{})
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestMemoryStoreListRuns(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, id := range []string{"run-a", "run-b"} {
		if err := store.SaveRun(ctx, diagnostics.RunSummary{RunID: id}); err != nil {
			t.Fatalf("save run %s: %v", id, err)
		}
	}

	ids, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "run-a" || ids[1] != "run-b" {
		t.Fatalf("unexpected run order: %v", ids)
	}
}

func TestMemoryStoreGetRunMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, ok, err := store.GetRun(ctx, "missing")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if ok {
		t.Fatal("expected no run for missing id")
	}
}
