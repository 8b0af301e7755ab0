package content

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewItemRepository creates a repository for content items keyed by slug.
func NewItemRepository(db *bun.DB) repository.Repository[*Item] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Item]{
		NewRecord:          func() *Item { return &Item{} },
		GetID:              func(item *Item) uuid.UUID { return item.ID },
		SetID:              func(item *Item, id uuid.UUID) { item.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(item *Item) string { return item.Slug },
	})
}
