package settings

import (
	"context"
	"sync"
)

// MemoryRepository keeps the single workflowui settings record (UI style,
// group title, save label, button label pattern) in process. It backs the
// container when no storage driver is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	current Settings
	stored  bool
	events  *changeBroadcaster
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: newChangeBroadcaster()}
}

// Get returns ErrSettingsNotFound until the admin form has been saved once,
// so State keeps serving the configured defaults.
func (r *MemoryRepository) Get(context.Context) (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.stored {
		return Settings{}, ErrSettingsNotFound
	}
	return r.current, nil
}

// Upsert saves the admin form. Saving the form without edits stores nothing
// new and publishes no event, so watchers do not rebuild their snapshot.
func (r *MemoryRepository) Upsert(_ context.Context, settings Settings) (Settings, error) {
	r.mu.Lock()
	change := ChangeUpdated
	switch {
	case !r.stored:
		change = ChangeCreated
	case r.current == settings:
		r.mu.Unlock()
		return settings, nil
	}
	r.current, r.stored = settings, true
	r.mu.Unlock()

	r.events.Broadcast(newChangeEvent(change, settings))
	return settings, nil
}

// Delete drops the saved record. Watchers receive ChangeDeleted and fall back
// to the configured defaults.
func (r *MemoryRepository) Delete(context.Context) error {
	r.mu.Lock()
	if !r.stored {
		r.mu.Unlock()
		return ErrSettingsNotFound
	}
	r.current, r.stored = Settings{}, false
	r.mu.Unlock()

	r.events.Broadcast(newChangeEvent(ChangeDeleted, Settings{}))
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.Subscribe(ctx)
}
