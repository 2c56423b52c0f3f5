// Package cache holds the last observed state per document for the lifetime
// of the process. It is a fast path only: a completed cached entry lets a
// new polling session skip the network, but losing the cache never changes
// the eventual outcome.
package cache

import (
	"sync"

	"papertldr/internal/models"
)

// Store is an injectable in-memory document-state cache. No eviction, no
// persistence; lifetime equals the application session.
type Store struct {
	mu   sync.RWMutex
	docs map[string]models.DocumentState
}

func New() *Store {
	return &Store{docs: make(map[string]models.DocumentState)}
}

// Get returns a deep copy of the cached state for a document, if any.
func (s *Store) Get(documentID string) (models.DocumentState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.docs[documentID]
	if !ok {
		return models.DocumentState{}, false
	}
	return st.Clone(), true
}

// Put stores a deep copy of the state, overwriting any previous entry.
func (s *Store) Put(documentID string, state models.DocumentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[documentID] = state.Clone()
}

func (s *Store) Clear(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, documentID)
}

func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]models.DocumentState)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
