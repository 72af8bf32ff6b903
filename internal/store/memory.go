package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonMunkholm/reconcile/internal/core"
)

// DefaultMemoryCapacity is how many runs Memory keeps when no capacity is given.
const DefaultMemoryCapacity = 1000

// Memory is an in-process RunStore. It keeps the most recent runs up to its
// capacity and forgets everything on restart.
type Memory struct {
	mu       sync.RWMutex
	capacity int
	runs     []core.RunRecord // oldest first
	index    map[string]int   // run ID -> position in runs
}

var _ core.RunStore = (*Memory)(nil)

// NewMemory creates a Memory store holding at most capacity runs.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{
		capacity: capacity,
		index:    make(map[string]int),
	}
}

// SaveRun inserts run, or replaces the run with the same ID.
func (m *Memory) SaveRun(_ context.Context, run core.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("save run: missing id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[run.ID]; ok {
		m.runs[i] = run
		return nil
	}

	m.runs = append(m.runs, run)
	if len(m.runs) <= m.capacity {
		m.index[run.ID] = len(m.runs) - 1
		return nil
	}

	m.runs = append([]core.RunRecord(nil), m.runs[len(m.runs)-m.capacity:]...)
	m.reindex()
	return nil
}

func (m *Memory) reindex() {
	clear(m.index)
	for i, r := range m.runs {
		m.index[r.ID] = i
	}
}

// GetRun returns the run with the given ID.
func (m *Memory) GetRun(_ context.Context, id string) (core.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return core.RunRecord{}, core.ErrRunNotFound
	}
	return m.runs[i], nil
}

// ListRuns returns up to limit runs, newest first.
func (m *Memory) ListRuns(_ context.Context, limit int) ([]core.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}

	out := make([]core.RunRecord, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}
