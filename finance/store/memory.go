// Package store provides in-memory finance.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/roi-engine/finance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	projects map[string]finance.Project
	results  []finance.ArchivedResult
	byID     map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		projects: make(map[string]finance.Project),
		byID:     make(map[string]int),
	}
}

func (m *Memory) SaveProject(_ context.Context, p finance.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.projects[p.ID]; ok && p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id string) (finance.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return finance.Project{}, finance.ErrProjectNotFound
	}
	return p, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]finance.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]finance.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteProject drops the project and its results.
func (m *Memory) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return finance.ErrProjectNotFound
	}
	delete(m.projects, id)

	kept := m.results[:0]
	for _, r := range m.results {
		if r.ProjectID != id {
			kept = append(kept, r)
		}
	}
	m.results = kept
	m.reindexLocked()
	return nil
}

// SaveResult appends. Results are kept in insertion order and an ID is
// never reused.
func (m *Memory) SaveResult(_ context.Context, r finance.ArchivedResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[r.ProjectID]; !ok {
		return finance.ErrProjectNotFound
	}
	if _, ok := m.byID[r.Result.ID]; ok {
		return finance.ErrDuplicateResult
	}
	m.byID[r.Result.ID] = len(m.results)
	m.results = append(m.results, r)
	return nil
}

func (m *Memory) GetResult(_ context.Context, id string) (finance.ArchivedResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return finance.ArchivedResult{}, finance.ErrResultNotFound
	}
	return m.results[i], nil
}

func (m *Memory) ListResults(_ context.Context, f finance.ResultFilter) ([]finance.ArchivedResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []finance.ArchivedResult
	for i := len(m.results) - 1; i >= 0; i-- {
		r := m.results[i]
		if f.ProjectID != "" && r.ProjectID != f.ProjectID {
			continue
		}
		if f.Scenario != nil && r.Result.Scenario != *f.Scenario {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) reindexLocked() {
	m.byID = make(map[string]int, len(m.results))
	for i, r := range m.results {
		m.byID[r.Result.ID] = i
	}
}

var _ finance.Store = (*Memory)(nil)
