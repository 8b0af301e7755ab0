package content

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Item is the persisted shape of a content item.
type Item struct {
	bun.BaseModel `bun:"table:workflowui_contents,alias:wc"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ContentType string    `bun:"content_type,notnull" json:"content_type"`
	Title       string    `bun:"title,notnull" json:"title"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	AuthorID    uuid.UUID `bun:"author_id,type:uuid" json:"author_id"`
	StateID     int       `bun:"state_id" json:"state_id"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	ChangedAt   time.Time `bun:"changed_at,nullzero" json:"changed_at"`
}

// ToContentItem converts the record to the shared content shape.
func (i *Item) ToContentItem() *interfaces.ContentItem {
	if i == nil {
		return nil
	}
	return &interfaces.ContentItem{
		ID:        i.ID,
		Type:      i.ContentType,
		Title:     i.Title,
		Slug:      i.Slug,
		AuthorID:  i.AuthorID,
		StateID:   interfaces.StateID(i.StateID),
		CreatedAt: i.CreatedAt,
		ChangedAt: i.ChangedAt,
	}
}

// ItemFrom converts the shared content shape into a record.
func ItemFrom(item *interfaces.ContentItem) *Item {
	if item == nil {
		return nil
	}
	return &Item{
		ID:          item.ID,
		ContentType: item.Type,
		Title:       item.Title,
		Slug:        item.Slug,
		AuthorID:    item.AuthorID,
		StateID:     int(item.StateID),
		CreatedAt:   item.CreatedAt,
		ChangedAt:   item.ChangedAt,
	}
}

// NotFoundError is returned when a content item does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Store is the content store with the lookups the module needs.
type Store interface {
	interfaces.ContentStore
	GetBySlug(ctx context.Context, slug string) (*interfaces.ContentItem, error)
	// SetState records the workflow state the item was moved to.
	SetState(ctx context.Context, id uuid.UUID, state interfaces.StateID) error
}
