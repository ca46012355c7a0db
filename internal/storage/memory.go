package storage

import (
	"context"
	"fmt"
	"sync"

	"matingcore/internal/diagnostics"
)

// MemoryStore is the default Store backend: an in-process map guarded
// by a RWMutex, matching the teacher's MemoryStore shape exactly (same
// Init/Save/Get split, same copy-on-write-out discipline for slices).
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]diagnostics.RunSummary
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]diagnostics.RunSummary)
	s.order = nil
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run diagnostics.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("store is not initialized")
	}
	if _, exists := s.runs[run.RunID]; !exists {
		s.order = append(s.order, run.RunID)
	}
	run.Generations = append([]diagnostics.GenerationRecord(nil), run.Generations...)
	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (diagnostics.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return diagnostics.RunSummary{}, false, nil
	}
	run.Generations = append([]diagnostics.GenerationRecord(nil), run.Generations...)
	return run, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.order...), nil
}

func (s *MemoryStore) AppendGeneration(_ context.Context, runID string, gen diagnostics.GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("unknown run: %s", runID)
	}
	run.Generations = append(run.Generations, gen)
	s.runs[runID] = run
	return nil
}
