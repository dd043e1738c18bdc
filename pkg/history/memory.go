package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store in memory. Used in tests and when history
// persistence is disabled.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

// SaveRun stores a copy of the run.
func (m *MemoryStore) SaveRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *run
	clone.Violations = append([]RunViolation(nil), run.Violations...)
	m.runs[run.ID] = &clone
	return nil
}

// GetRun returns the stored run.
func (m *MemoryStore) GetRun(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	clone := *run
	clone.Violations = append([]RunViolation(nil), run.Violations...)
	return &clone, nil
}

// ListRuns returns runs newest first, without violations.
func (m *MemoryStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		clone := *run
		clone.Violations = nil
		runs = append(runs, &clone)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// DeleteRunsBefore removes runs started before cutoff.
func (m *MemoryStore) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, run := range m.runs {
		if run.StartedAt.Before(cutoff) {
			delete(m.runs, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
