// Package memstore is an in-memory store.Store for tests.
package memstore

import (
	"context"
	"sync"

	"github.com/finsignal/bankfeed/pkg/bankfeed/store"
)

// Store keeps records and hashes in process memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []store.Record
	seen    map[string]struct{}
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Load returns a copy of the current state.
func (s *Store) Load(ctx context.Context) (store.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]store.Record, len(s.records))
	copy(records, s.records)
	seen := make(map[string]struct{}, len(s.seen))
	for h := range s.seen {
		seen[h] = struct{}{}
	}
	return store.State{Records: records, Seen: seen}, nil
}

// AppendAndPersist appends the batch; in memory both collections always
// change together under one lock.
func (s *Store) AppendAndPersist(ctx context.Context, records []store.Record, hashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, records...)
	for _, h := range hashes {
		if h != "" {
			s.seen[h] = struct{}{}
		}
	}
	return nil
}

// Clear drops records and hashes together.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.seen = make(map[string]struct{})
	return nil
}

// Status reports stored volume.
func (s *Store) Status(ctx context.Context) (store.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.Status{Records: len(s.records), Hashes: len(s.seen)}, nil
}
