package corpus

import (
	"errors"
	"sync/atomic"

	"github.com/normafacile/backend/internal/models"
)

var (
	// ErrUnavailable distinguishes "no successful pipeline run yet" from an
	// empty result set.
	ErrUnavailable = errors.New("corpus not available")
	// ErrNotFound marks an unknown document ID.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyQuery rejects blank queries before they reach the ranker.
	ErrEmptyQuery = errors.New("empty query")
)

type snapshot struct {
	docs []models.Document
	byID map[string]int
}

// Store holds the queryable corpus. Readers always work against a stable
// snapshot; Replace is the only writer and swaps the whole snapshot
// atomically, so a reader observes either the old corpus or the new one,
// never a mix.
type Store struct {
	snap atomic.Pointer[snapshot]
}

// NewStore creates an empty, not-yet-ready store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs docs as the new corpus. The caller hands over ownership;
// documents must not be mutated afterwards.
func (s *Store) Replace(docs []models.Document) {
	byID := make(map[string]int, len(docs))
	for i, doc := range docs {
		if _, ok := byID[doc.ID]; !ok {
			byID[doc.ID] = i
		}
	}
	s.snap.Store(&snapshot{docs: docs, byID: byID})
}

// Ready reports whether a pipeline run has ever populated the store.
func (s *Store) Ready() bool {
	return s.snap.Load() != nil
}

// Size returns the number of documents in the current corpus.
func (s *Store) Size() int {
	snap := s.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.docs)
}

// Documents returns the current corpus in store order.
func (s *Store) Documents() ([]models.Document, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrUnavailable
	}
	return snap.docs, nil
}

// GetByID returns the document with the given content-stable ID.
func (s *Store) GetByID(id string) (models.Document, error) {
	snap := s.snap.Load()
	if snap == nil {
		return models.Document{}, ErrUnavailable
	}
	idx, ok := snap.byID[id]
	if !ok {
		return models.Document{}, ErrNotFound
	}
	return snap.docs[idx], nil
}
