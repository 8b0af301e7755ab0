package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var errNoDatabase = errors.New("history: bun store requires a database")

// BunStore persists history rows.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

// NewBunStore constructs a Bun-backed store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Model exposes the table model for schema creation.
func Model() any {
	return (*entryModel)(nil)
}

// RecordStateChange inserts a history row.
func (s *BunStore) RecordStateChange(ctx context.Context, contentID uuid.UUID, from, to interfaces.StateID, at time.Time) error {
	if s.db == nil {
		return errNoDatabase
	}
	if contentID == uuid.Nil {
		return ErrNilContentID
	}
	model := entryModel{
		ID:        uuid.New(),
		ContentID: contentID,
		FromState: int(from),
		ToState:   int(to),
		ChangedAt: at.UTC(),
	}
	_, err := s.db.NewInsert().Model(&model).Exec(ctx)
	return err
}

// LastStateChange returns the latest change timestamp, or nil without history.
func (s *BunStore) LastStateChange(ctx context.Context, contentID uuid.UUID) (*time.Time, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	var model entryModel
	err := s.db.NewSelect().
		Model(&model).
		Where("content_id = ?", contentID).
		OrderExpr("changed_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	at := model.ChangedAt.UTC()
	return &at, nil
}

// Entries returns the history of contentID oldest first.
func (s *BunStore) Entries(ctx context.Context, contentID uuid.UUID) ([]Entry, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	var models []entryModel
	if err := s.db.NewSelect().
		Model(&models).
		Where("content_id = ?", contentID).
		OrderExpr("changed_at ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(models))
	for _, model := range models {
		out = append(out, Entry{
			ID:        model.ID,
			ContentID: model.ContentID,
			FromState: interfaces.StateID(model.FromState),
			ToState:   interfaces.StateID(model.ToState),
			ChangedAt: model.ChangedAt.UTC(),
		})
	}
	return out, nil
}

type entryModel struct {
	bun.BaseModel `bun:"table:workflowui_state_history"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	ContentID uuid.UUID `bun:"content_id,notnull,type:uuid"`
	FromState int       `bun:"from_state"`
	ToState   int       `bun:"to_state,notnull"`
	ChangedAt time.Time `bun:"changed_at,notnull"`
}
