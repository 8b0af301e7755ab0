package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContentItem is the subject moved through a workflow. The form layer only reads it.
type ContentItem struct {
	ID        uuid.UUID
	Type      string
	Title     string
	Slug      string
	AuthorID  uuid.UUID
	StateID   StateID
	CreatedAt time.Time
	// ChangedAt is the last modification timestamp.
	ChangedAt time.Time
}

// IsNew reports whether the item has not been persisted yet.
func (c *ContentItem) IsNew() bool {
	return c == nil || c.ID == uuid.Nil
}

// ContentStore loads content items by identifier.
type ContentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ContentItem, error)
}

// HistoryStore exposes workflow history lookups.
type HistoryStore interface {
	// LastStateChange returns the timestamp of the most recent state change, or nil
	// when the item never changed state.
	LastStateChange(ctx context.Context, contentID uuid.UUID) (*time.Time, error)
}

// User identifies the acting user for token substitution.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}
