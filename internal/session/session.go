// Package session holds the mutable state of one screening session:
// the current results and the job description they were scored against.
package session

import (
	"sync"

	"github.com/google/uuid"

	"smarthire/internal/types"
)

// State is the single source of truth for the active screening run
type State struct {
	mu             sync.RWMutex
	runID          string
	results        []types.CandidateResult
	jobDescription string
}

// NewState returns an empty session state
func NewState() *State {
	return &State{}
}

// SetResults replaces the current results and stamps a fresh run ID
func (s *State) SetResults(results []types.CandidateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = uuid.NewString()
	s.results = results
}

// RunID identifies the screening run the current results belong to.
// Empty until results are set or restored.
func (s *State) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// RestoreRunID reinstates a persisted run ID without generating a new one
func (s *State) RestoreRunID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = id
}

// Results returns a copy of the current results
func (s *State) Results() []types.CandidateResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CandidateResult, len(s.results))
	copy(out, s.results)
	return out
}

// Result returns the result with the given ID
func (s *State) Result(id string) (types.CandidateResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return types.CandidateResult{}, false
}

// RemoveResult drops the result with the given ID.
// Returns true if a result was removed.
func (s *State) RemoveResult(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.results {
		if r.ID == id {
			s.results = append(s.results[:i], s.results[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateResult replaces the stored result with the same ID.
// Used to fold in lazily fetched fields like explanations.
func (s *State) UpdateResult(c types.CandidateResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.results {
		if r.ID == c.ID {
			s.results[i] = c
			return true
		}
	}
	return false
}

// HasResults reports whether any results are loaded
func (s *State) HasResults() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results) > 0
}

// SetJobDescription records the job description of the current run
func (s *State) SetJobDescription(jd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = jd
}

// JobDescription returns the job description of the current run
func (s *State) JobDescription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobDescription
}
