package store

import (
	"context"
	"slices"
	"sync"

	errs "github.com/matzehuels/sppgrowth/pkg/errors"
)

// Memory keeps runs in a map. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]Run)}
}

// SaveRun stores a copy of run.
func (m *Memory) SaveRun(ctx context.Context, run *Run) error {
	ensureID(run)
	cp := *run
	cp.Patterns = slices.Clone(run.Patterns)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = cp
	return nil
}

// Run returns a copy of the stored run.
func (m *Memory) Run(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "run %s not found", id)
	}
	run.Patterns = slices.Clone(run.Patterns)
	return &run, nil
}

// Len returns the number of stored runs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

// Close does nothing.
func (m *Memory) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*Memory)(nil)
