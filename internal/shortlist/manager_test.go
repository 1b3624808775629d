package shortlist

import (
	"path/filepath"
	"testing"

	"smarthire/internal/store"
	"smarthire/internal/types"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m, err := NewManager(s)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m, s
}

func candidate(id string, score float64) types.CandidateResult {
	return types.CandidateResult{ID: id, AnonymizedName: "Candidate " + id, Score: score}
}

func TestAddAndContains(t *testing.T) {
	m, _ := newTestManager(t)

	added, err := m.Add(candidate("c1", 88))
	if err != nil || !added {
		t.Fatalf("Add() = %v, %v, want true, nil", added, err)
	}
	if !m.Contains("c1") {
		t.Error("Contains(c1) = false after Add")
	}
	if m.Contains("c2") {
		t.Error("Contains(c2) = true, never added")
	}
}

func TestAddDeduplicates(t *testing.T) {
	m, _ := newTestManager(t)

	m.Add(candidate("c1", 88))
	added, err := m.Add(candidate("c1", 92))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added {
		t.Error("second Add of same ID returned true")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	// the first entry wins
	if got := m.List()[0].Score; got != 88 {
		t.Errorf("List()[0].Score = %v, want 88", got)
	}
}

func TestRemove(t *testing.T) {
	m, _ := newTestManager(t)

	m.Add(candidate("c1", 80))
	m.Add(candidate("c2", 90))

	removed, err := m.Remove("c1")
	if err != nil || !removed {
		t.Fatalf("Remove(c1) = %v, %v, want true, nil", removed, err)
	}
	if m.Contains("c1") || !m.Contains("c2") {
		t.Error("wrong entry removed")
	}

	removed, err = m.Remove("missing")
	if err != nil || removed {
		t.Errorf("Remove(missing) = %v, %v, want false, nil", removed, err)
	}
}

func TestInsertionOrder(t *testing.T) {
	m, _ := newTestManager(t)

	m.Add(candidate("c2", 70))
	m.Add(candidate("c1", 95))
	m.Add(candidate("c3", 60))

	list := m.List()
	wantOrder := []string{"c2", "c1", "c3"}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Errorf("List()[%d].ID = %q, want %q", i, list[i].ID, want)
		}
	}
}

func TestPersistenceAcrossManagers(t *testing.T) {
	m, s := newTestManager(t)

	m.Add(candidate("c1", 80))
	m.Add(candidate("c2", 90))
	m.Remove("c1")

	m2, err := NewManager(s)
	if err != nil {
		t.Fatalf("NewManager() reload error = %v", err)
	}
	if m2.Count() != 1 || !m2.Contains("c2") {
		t.Errorf("reloaded manager has %d entries, Contains(c2)=%v", m2.Count(), m2.Contains("c2"))
	}
}

func TestClear(t *testing.T) {
	m, s := newTestManager(t)

	m.Add(candidate("c1", 80))
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", m.Count())
	}

	m2, _ := NewManager(s)
	if m2.Count() != 0 {
		t.Errorf("reloaded Count() after Clear = %d, want 0", m2.Count())
	}
}
