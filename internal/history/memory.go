package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryStore keeps history in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]Entry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID][]Entry)}
}

// RecordStateChange appends a history entry.
func (s *MemoryStore) RecordStateChange(_ context.Context, contentID uuid.UUID, from, to interfaces.StateID, at time.Time) error {
	if contentID == uuid.Nil {
		return ErrNilContentID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[contentID] = append(s.entries[contentID], Entry{
		ID:        uuid.New(),
		ContentID: contentID,
		FromState: from,
		ToState:   to,
		ChangedAt: at.UTC(),
	})
	return nil
}

// LastStateChange returns the latest change timestamp, or nil without history.
func (s *MemoryStore) LastStateChange(_ context.Context, contentID uuid.UUID) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *time.Time
	for _, entry := range s.entries[contentID] {
		if latest == nil || entry.ChangedAt.After(*latest) {
			at := entry.ChangedAt
			latest = &at
		}
	}
	return latest, nil
}

// Entries returns the history of contentID oldest first.
func (s *MemoryStore) Entries(_ context.Context, contentID uuid.UUID) ([]Entry, error) {
	s.mu.RLock()
	out := slices.Clone(s.entries[contentID])
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.ChangedAt.Compare(b.ChangedAt)
	})
	return out, nil
}
