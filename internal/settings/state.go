package settings

import (
	"context"
	"errors"
	"sync/atomic"
)

// State holds the settings snapshot handed to each request. Snapshots are
// immutable values; updates swap the whole value.
type State struct {
	current  atomic.Pointer[Settings]
	fallback Settings
}

// NewState constructs a state seeded with settings. The seed is also what a
// deleted settings record falls back to.
func NewState(seed Settings) *State {
	st := &State{fallback: seed}
	st.Store(seed)
	return st
}

// Snapshot returns the settings in effect.
func (s *State) Snapshot() Settings {
	if s == nil {
		return Settings{}
	}
	if current := s.current.Load(); current != nil {
		return *current
	}
	return s.fallback
}

// Store replaces the current settings.
func (s *State) Store(settings Settings) {
	if s == nil {
		return
	}
	copied := settings
	s.current.Store(&copied)
}

// Apply folds a change event into the state.
func (s *State) Apply(evt ChangeEvent) {
	if s == nil {
		return
	}
	if evt.Type == ChangeDeleted {
		s.Store(s.fallback)
		return
	}
	s.Store(evt.Settings)
}

// Load primes the state from the repository, keeping the seed when nothing
// has been stored yet.
func (s *State) Load(ctx context.Context, repo Repository) error {
	if s == nil || repo == nil {
		return nil
	}
	stored, err := repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return nil
		}
		return err
	}
	s.Store(stored)
	return nil
}

// Watch primes the state and keeps it in sync with repository changes until
// ctx is cancelled.
func (s *State) Watch(ctx context.Context, repo Repository) error {
	if err := s.Load(ctx, repo); err != nil {
		return err
	}
	if repo == nil {
		return nil
	}
	events, err := repo.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for evt := range events {
			s.Apply(evt)
		}
	}()
	return nil
}
