// Package storemem is an in-process Blob backend backed by a map. It holds
// no data beyond process lifetime, making it the right choice for tests and
// scratch repositories.
package storemem

import (
	"context"
	"iter"
	"maps"
	"sync"

	"vaultstore/internal/store"
)

// Store is an in-memory, process-local implementation of store.Blob.
type Store struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	locked bool
}

// New creates an empty Store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

func (s *Store) Write(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[id] = cp
	return nil
}

func (s *Store) Read(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
	return nil
}

func (s *Store) List(_ context.Context) iter.Seq2[string, error] {
	s.mu.Lock()
	ids := make([]string, 0, len(s.blobs))
	for id := range maps.Keys(s.blobs) {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, id := range ids {
			if !yield(id, nil) {
				return
			}
		}
	}
}

func (s *Store) Lock(_ context.Context, strategy store.LockStrategy) (store.Guard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked && strategy == store.LockAbort {
		return nil, store.ErrAlreadyLocked
	}
	// LockWait has nothing to wait on within a single process: the lock is
	// held by this same Store instance, so the caller already holds mu and
	// a wait would deadlock. Treat Wait like Force for this backend.
	s.locked = true
	return &guard{store: s}, nil
}

type guard struct {
	store *Store
}

func (g *guard) Unlock(_ context.Context) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.store.locked = false
	return nil
}
