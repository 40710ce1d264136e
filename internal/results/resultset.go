package results

import "sync"

// ResultSet is a concurrency-safe mapping from peer identifier to result.
//
// Identifiers are stored exactly as submitted. Setting an identifier that is
// already present replaces the previous result.
type ResultSet struct {
	mu      sync.RWMutex
	entries map[string]PeerResult
}

// NewResultSet creates an empty [ResultSet].
func NewResultSet() *ResultSet {
	return &ResultSet{
		entries: make(map[string]PeerResult),
	}
}

// Set stores the result for id, replacing any earlier value.
func (s *ResultSet) Set(id string, result PeerResult) {
	s.mu.Lock()
	s.entries[id] = result
	s.mu.Unlock()
}

// Get returns the result stored for id.
func (s *ResultSet) Get(id string) (PeerResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.entries[id]
	return r, ok
}

// Len returns the number of distinct identifiers in the set.
func (s *ResultSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Snapshot returns a copy of the current entries.
//
// The returned map is owned by the caller; later writes to the set do not
// affect it.
func (s *ResultSet) Snapshot() map[string]PeerResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make(map[string]PeerResult, len(s.entries))
	for id, r := range s.entries {
		cp[id] = r
	}
	return cp
}

// Totals sums reward and score over the set's current non-error entries.
func (s *ResultSet) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Sum(s.entries)
}
