package drafts

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return cloneDraft(draft), nil
}

func (s *MemoryStore) Save(_ context.Context, draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ID] = cloneDraft(draft)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}

func (s *MemoryStore) PurgeBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, draft := range s.drafts {
		if draft.UpdatedAt.Before(cutoff) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed, nil
}

// cloneDraft copies the reference-typed fields so callers never share them
// with the store.
func cloneDraft(draft Draft) Draft {
	if draft.Errors != nil {
		draft.Errors = maps.Clone(draft.Errors)
	}
	if draft.SubmittedAt != nil {
		submittedAt := *draft.SubmittedAt
		draft.SubmittedAt = &submittedAt
	}
	return draft
}
