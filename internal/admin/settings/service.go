package settings

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-workflowui/internal/audit"
	"github.com/goliatone/go-workflowui/internal/domain"
	"github.com/goliatone/go-workflowui/internal/permissions"
	wfsettings "github.com/goliatone/go-workflowui/internal/settings"
	wfvalidation "github.com/goliatone/go-workflowui/internal/validation"
)

// ErrRepositoryRequired indicates the service was constructed without a repository.
var ErrRepositoryRequired = errors.New("adminsettings: repository is required")

const (
	entityType = "workflowui_settings"
	entityID   = "global"
)

//go:embed schema.json
var schemaDocument []byte

var payloadSchema = wfvalidation.MustCompile(schemaDocument)

// Payload is the JSON shape of the settings form.
type Payload struct {
	UIStyle     string `json:"ui_style"`
	FormTitle   string `json:"form_title"`
	SaveLabel   string `json:"save_label"`
	ButtonLabel string `json:"button_label"`
}

// PayloadFrom renders settings in the form's JSON shape.
func PayloadFrom(s wfsettings.Settings) Payload {
	return Payload{
		UIStyle:     s.UIStyle.String(),
		FormTitle:   s.FormTitle,
		SaveLabel:   s.SaveLabel,
		ButtonLabel: s.ButtonLabel,
	}
}

// Settings converts the payload.
func (p Payload) Settings() wfsettings.Settings {
	return wfsettings.Settings{
		UIStyle:     domain.ParseUIStyleName(p.UIStyle),
		FormTitle:   p.FormTitle,
		SaveLabel:   p.SaveLabel,
		ButtonLabel: p.ButtonLabel,
	}
}

// Option mutates the service configuration.
type Option func(*Service)

// WithClock overrides the clock used for audit timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAuditRecorder overrides the audit recorder dependency.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Service) {
		s.audit = recorder
	}
}

// WithDefaults sets the settings returned before any were stored.
func WithDefaults(defaults wfsettings.Settings) Option {
	return func(s *Service) {
		s.defaults = defaults
	}
}

// Service is the backend of the workflow form settings page.
type Service struct {
	repo     wfsettings.Repository
	audit    audit.Recorder
	defaults wfsettings.Settings
	clock    func() time.Time
}

// NewService constructs the admin settings service.
func NewService(repo wfsettings.Repository, opts ...Option) *Service {
	svc := &Service{
		repo:  repo,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Schema returns the JSON schema of the settings payload.
func (s *Service) Schema() string {
	return string(schemaDocument)
}

// Get returns the stored settings, or the defaults when none were stored.
func (s *Service) Get(ctx context.Context) (wfsettings.Settings, error) {
	if s.repo == nil {
		return wfsettings.Settings{}, ErrRepositoryRequired
	}
	ctx = ensureContext(ctx)
	if err := permissions.Require(ctx, permissions.SettingsRead); err != nil {
		return wfsettings.Settings{}, err
	}
	stored, err := s.repo.Get(ctx)
	if errors.Is(err, wfsettings.ErrSettingsNotFound) {
		return s.defaults, nil
	}
	return stored, err
}

// Apply validates and stores settings, recording an audit entry.
func (s *Service) Apply(ctx context.Context, settings wfsettings.Settings) (wfsettings.Settings, error) {
	if s.repo == nil {
		return wfsettings.Settings{}, ErrRepositoryRequired
	}
	ctx = ensureContext(ctx)
	if err := permissions.Require(ctx, permissions.SettingsUpdate); err != nil {
		return wfsettings.Settings{}, err
	}
	if err := validateSettings(settings); err != nil {
		return wfsettings.Settings{}, err
	}

	action := "workflowui_settings_updated"
	if _, err := s.repo.Get(ctx); err != nil {
		if !errors.Is(err, wfsettings.ErrSettingsNotFound) {
			return wfsettings.Settings{}, err
		}
		action = "workflowui_settings_created"
	}

	stored, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		return wfsettings.Settings{}, err
	}

	s.recordAudit(ctx, audit.Event{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Metadata: map[string]any{
			"ui_style":     stored.UIStyle.String(),
			"form_title":   stored.FormTitle,
			"save_label":   stored.SaveLabel,
			"button_label": stored.ButtonLabel,
		},
	})
	return stored, nil
}

// ApplyJSON validates raw against the settings schema before applying it.
func (s *Service) ApplyJSON(ctx context.Context, raw []byte) (wfsettings.Settings, error) {
	if err := payloadSchema.ValidateJSON(raw); err != nil {
		return wfsettings.Settings{}, err
	}
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return wfsettings.Settings{}, err
	}
	return s.Apply(ctx, payload.Settings())
}

// Reset clears stored settings so the defaults apply again.
func (s *Service) Reset(ctx context.Context) error {
	if s.repo == nil {
		return ErrRepositoryRequired
	}
	ctx = ensureContext(ctx)
	if err := permissions.Require(ctx, permissions.SettingsDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx); err != nil {
		if errors.Is(err, wfsettings.ErrSettingsNotFound) {
			return nil
		}
		return err
	}

	s.recordAudit(ctx, audit.Event{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     "workflowui_settings_deleted",
	})
	return nil
}

func (s *Service) recordAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clock()
	}
	_ = s.audit.Record(ctx, event)
}

func validateSettings(settings wfsettings.Settings) error {
	return validation.ValidateStruct(&settings,
		validation.Field(&settings.UIStyle, validation.In(domain.UIStyleRadios, domain.UIStyleButtons, domain.UIStyleDropdown)),
		validation.Field(&settings.FormTitle, validation.Length(0, 128)),
		validation.Field(&settings.SaveLabel, validation.Length(0, 128)),
		validation.Field(&settings.ButtonLabel, validation.Length(0, 255)),
	)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
