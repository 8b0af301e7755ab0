package di

import (
	"context"
	"errors"

	"github.com/goliatone/go-workflowui/internal/commit"
	"github.com/goliatone/go-workflowui/internal/content"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// contentStateAssigner moves the item in the workflow engine and mirrors the
// new state onto the stored content item.
type contentStateAssigner struct {
	engine commit.Assigner
	store  content.Store
}

func (a *contentStateAssigner) Assign(ctx context.Context, contentID uuid.UUID, to interfaces.StateID) error {
	if err := a.engine.Assign(ctx, contentID, to); err != nil {
		return err
	}
	if a.store == nil {
		return nil
	}
	if err := a.store.SetState(ctx, contentID, to); err != nil {
		var notFound *content.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// stateSyncRepository updates the settings snapshot as soon as a write
// succeeds.
type stateSyncRepository struct {
	settings.Repository
	state *settings.State
}

func (r *stateSyncRepository) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	stored, err := r.Repository.Upsert(ctx, s)
	if err != nil {
		return stored, err
	}
	r.state.Store(stored)
	return stored, nil
}

func (r *stateSyncRepository) Delete(ctx context.Context) error {
	if err := r.Repository.Delete(ctx); err != nil {
		return err
	}
	r.state.Apply(settings.ChangeEvent{Type: settings.ChangeDeleted})
	return nil
}
