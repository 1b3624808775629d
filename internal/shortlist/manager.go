// Package shortlist manages the persistent set of shortlisted candidates.
package shortlist

import (
	"sync"

	"smarthire/internal/store"
	"smarthire/internal/types"
)

// Manager holds the shortlist in memory and writes through to the store
// after every mutation. Entries keep insertion order and are unique by
// candidate ID.
type Manager struct {
	mu      sync.Mutex
	store   *store.Store
	entries []types.CandidateResult
}

// NewManager creates a manager and loads any persisted shortlist
func NewManager(s *store.Store) (*Manager, error) {
	m := &Manager{store: s}
	if _, err := s.GetJSON(store.KeyShortlist, &m.entries); err != nil {
		return nil, err
	}
	return m, nil
}

// Add appends the candidate if not already shortlisted.
// Returns true if the candidate was added.
func (m *Manager) Add(c types.CandidateResult) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.containsLocked(c.ID) {
		return false, nil
	}
	m.entries = append(m.entries, c)
	return true, m.save()
}

// Remove deletes the candidate with the given ID.
// Returns true if an entry was removed.
func (m *Manager) Remove(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, m.save()
		}
	}
	return false, nil
}

// Clear removes all entries
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	return m.save()
}

// Contains reports whether the candidate ID is shortlisted
func (m *Manager) Contains(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containsLocked(id)
}

func (m *Manager) containsLocked(id string) bool {
	for _, e := range m.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// List returns a copy of the shortlist in insertion order
func (m *Manager) List() []types.CandidateResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.CandidateResult, len(m.entries))
	copy(out, m.entries)
	return out
}

// Count returns the number of shortlisted candidates
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) save() error {
	entries := m.entries
	if entries == nil {
		entries = []types.CandidateResult{}
	}
	return m.store.PutJSON(store.KeyShortlist, entries)
}
