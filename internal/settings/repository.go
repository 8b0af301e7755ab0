package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-workflowui/internal/domain"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
)

// ErrSettingsNotFound indicates that workflow form settings have not been configured yet.
var ErrSettingsNotFound = errors.New("settings: settings not found")

// NoTitle is the form title sentinel that removes the title entirely.
const NoTitle = "<none>"

// Settings capture the admin configured workflow form customisation.
type Settings struct {
	UIStyle domain.UIStyle
	// FormTitle replaces the workflow group title. Empty leaves it untouched
	// and NoTitle omits it.
	FormTitle string
	// SaveLabel is the alternate label for the save control that keeps the
	// current state.
	SaveLabel string
	// ButtonLabel is the label pattern for transition buttons. It may contain
	// tokens and [workflow-new-state-name].
	ButtonLabel string
}

// TitleOverride reports the configured title and whether one applies.
func (s Settings) TitleOverride() (string, bool) {
	if strings.TrimSpace(s.FormTitle) == "" {
		return "", false
	}
	return s.FormTitle, true
}

// OmitTitle reports whether the title should be removed entirely.
func (s Settings) OmitTitle() bool {
	return strings.TrimSpace(s.FormTitle) == NoTitle
}

// FromConfig builds seed settings from the runtime defaults block.
func FromConfig(cfg runtimeconfig.DefaultsConfig) Settings {
	return Settings{
		UIStyle:     domain.ParseUIStyleName(cfg.UIStyle),
		FormTitle:   cfg.FormTitle,
		SaveLabel:   cfg.SaveLabel,
		ButtonLabel: cfg.ButtonLabel,
	}
}

// Repository persists workflow form settings and emits change notifications.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
	Delete(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates settings change events.
type ChangeType string

const (
	// ChangeCreated indicates settings were first persisted.
	ChangeCreated ChangeType = "created"
	// ChangeUpdated indicates settings were updated.
	ChangeUpdated ChangeType = "updated"
	// ChangeDeleted indicates settings were cleared.
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports settings mutations to interested subscribers.
type ChangeEvent struct {
	Type     ChangeType
	Settings Settings
}

func newChangeEvent(changeType ChangeType, settings Settings) ChangeEvent {
	return ChangeEvent{
		Type:     changeType,
		Settings: settings,
	}
}
