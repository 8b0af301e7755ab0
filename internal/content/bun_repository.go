package content

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore reads and writes content items through go-repository-bun, with
// optional caching.
type BunStore struct {
	repo repository.Repository[*Item]
}

var _ Store = (*BunStore)(nil)

// NewBunStore creates a store without caching.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache creates a store with caching support.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	base := NewItemRepository(db)
	return &BunStore{repo: wrapWithCache(base, cacheService, keySerializer)}
}

// Model exposes the table model for schema creation.
func Model() any {
	return (*Item)(nil)
}

// Create inserts item.
func (s *BunStore) Create(ctx context.Context, item *interfaces.ContentItem) (*interfaces.ContentItem, error) {
	record, err := s.repo.Create(ctx, ItemFrom(item))
	if err != nil {
		return nil, err
	}
	return record.ToContentItem(), nil
}

// Update replaces the stored item.
func (s *BunStore) Update(ctx context.Context, item *interfaces.ContentItem) (*interfaces.ContentItem, error) {
	record, err := s.repo.Update(ctx, ItemFrom(item))
	if err != nil {
		return nil, mapRepositoryError(err, "content", item.ID.String())
	}
	return record.ToContentItem(), nil
}

// GetByID implements interfaces.ContentStore.
func (s *BunStore) GetByID(ctx context.Context, id uuid.UUID) (*interfaces.ContentItem, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content", id.String())
	}
	return record.ToContentItem(), nil
}

// GetBySlug returns the item with slug.
func (s *BunStore) GetBySlug(ctx context.Context, slug string) (*interfaces.ContentItem, error) {
	record, err := s.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "content", slug)
	}
	return record.ToContentItem(), nil
}

// SetState updates the stored workflow state of item id.
func (s *BunStore) SetState(ctx context.Context, id uuid.UUID, state interfaces.StateID) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	item.StateID = state
	_, err = s.Update(ctx, item)
	return err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
