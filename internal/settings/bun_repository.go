package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-workflowui/internal/domain"
	"github.com/uptrace/bun"
)

var errNoDatabase = errors.New("settings: bun repository requires a database")

// BunRepository persists workflow form settings as a single row.
type BunRepository struct {
	db          *bun.DB
	broadcaster *changeBroadcaster
	now         func() time.Time
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository constructs a Bun-backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		broadcaster: newChangeBroadcaster(),
		now:         time.Now,
	}
}

// Model exposes the table model for schema creation.
func Model() any {
	return (*settingsModel)(nil)
}

// Get returns the persisted settings.
func (r *BunRepository) Get(ctx context.Context) (Settings, error) {
	if r.db == nil {
		return Settings{}, errNoDatabase
	}
	model, err := r.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	return modelToSettings(model), nil
}

// Upsert creates or updates the persisted settings.
func (r *BunRepository) Upsert(ctx context.Context, settings Settings) (Settings, error) {
	if r.db == nil {
		return Settings{}, errNoDatabase
	}

	existing, err := r.load(ctx)
	created := errors.Is(err, ErrSettingsNotFound)
	if err != nil && !created {
		return Settings{}, err
	}
	if !created && modelToSettings(existing) == settings {
		return settings, nil
	}

	model := modelFromSettings(settings)
	model.ID = 1
	model.UpdatedAt = r.now().UTC()

	if created {
		if _, err := r.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return Settings{}, err
		}
	} else {
		if _, err := r.db.NewUpdate().
			Model(&model).
			Column("ui_style", "form_title", "save_label", "button_label", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return Settings{}, err
		}
	}

	stored, err := r.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	eventType := ChangeUpdated
	if created {
		eventType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(eventType, stored))
	return stored, nil
}

// Delete clears persisted settings.
func (r *BunRepository) Delete(ctx context.Context) error {
	if r.db == nil {
		return errNoDatabase
	}
	model, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model(model).WherePK().Exec(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, Settings{}))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func (r *BunRepository) load(ctx context.Context) (*settingsModel, error) {
	var model settingsModel
	if err := r.db.NewSelect().Model(&model).Where("id = ?", 1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &model, nil
}

type settingsModel struct {
	bun.BaseModel `bun:"table:workflowui_settings"`

	ID          int       `bun:",pk"`
	UIStyle     int       `bun:"ui_style,notnull"`
	FormTitle   string    `bun:"form_title"`
	SaveLabel   string    `bun:"save_label"`
	ButtonLabel string    `bun:"button_label"`
	UpdatedAt   time.Time `bun:"updated_at"`
}

func modelFromSettings(settings Settings) settingsModel {
	return settingsModel{
		UIStyle:     settings.UIStyle.Code(),
		FormTitle:   settings.FormTitle,
		SaveLabel:   settings.SaveLabel,
		ButtonLabel: settings.ButtonLabel,
	}
}

func modelToSettings(model *settingsModel) Settings {
	if model == nil {
		return Settings{}
	}
	return Settings{
		UIStyle:     domain.ParseUIStyle(model.UIStyle),
		FormTitle:   model.FormTitle,
		SaveLabel:   model.SaveLabel,
		ButtonLabel: model.ButtonLabel,
	}
}
