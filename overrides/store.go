package overrides

import "sync/atomic"

// Store holds the current Table. Readers take a Snapshot and use it for the
// whole of one request; Set swaps in a new table without blocking them.
type Store struct {
	current atomic.Pointer[Table]
}

// NewStore creates a store holding t.
func NewStore(t Table) *Store {
	s := &Store{}
	s.Set(t)
	return s
}

// Snapshot returns the current table, never nil.
func (s *Store) Snapshot() Table {
	if t := s.current.Load(); t != nil {
		return *t
	}
	return Table{}
}

// Set replaces the current table.
func (s *Store) Set(t Table) {
	if t == nil {
		t = Table{}
	}
	s.current.Store(&t)
}
