package content

import (
	"context"
	"sync"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory content store for scaffolding and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]*interfaces.ContentItem
	slugIndex map[string]uuid.UUID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     make(map[uuid.UUID]*interfaces.ContentItem),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Put inserts or replaces item.
func (m *MemoryStore) Put(item *interfaces.ContentItem) {
	if item == nil || item.ID == uuid.Nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if previous, ok := m.items[item.ID]; ok && previous.Slug != "" {
		delete(m.slugIndex, previous.Slug)
	}
	copied := *item
	m.items[item.ID] = &copied
	if copied.Slug != "" {
		m.slugIndex[copied.Slug] = copied.ID
	}
}

// GetByID implements interfaces.ContentStore.
func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*interfaces.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	copied := *item
	return &copied, nil
}

// GetBySlug returns the item with slug.
func (m *MemoryStore) GetBySlug(ctx context.Context, slug string) (*interfaces.ContentItem, error) {
	m.mu.RLock()
	id, ok := m.slugIndex[slug]
	m.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: slug}
	}
	return m.GetByID(ctx, id)
}

// SetState updates the stored workflow state of item id.
func (m *MemoryStore) SetState(_ context.Context, id uuid.UUID, state interfaces.StateID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return &NotFoundError{Resource: "content", Key: id.String()}
	}
	item.StateID = state
	return nil
}
