package settingscmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-workflowui/internal/commands"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

const (
	applySettingsMessageType  = "workflowui.settings.apply"
	resetSettingsMessageType  = "workflowui.settings.reset"
	reloadSettingsMessageType = "workflowui.settings.reload"
)

// DefaultReloadExpression is the cron schedule of the reload handler.
const DefaultReloadExpression = "@every 5m"

// Admin is the settings admin surface the commands drive.
type Admin interface {
	ApplyJSON(ctx context.Context, raw []byte) (settings.Settings, error)
	Reset(ctx context.Context) error
}

// ApplySettingsCommand stores a settings payload in the admin form shape.
type ApplySettingsCommand struct {
	Payload json.RawMessage `json:"payload"`
}

// Type implements command.Message.
func (ApplySettingsCommand) Type() string { return applySettingsMessageType }

// Validate requires a payload.
func (m ApplySettingsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Payload, validation.Required),
	)
}

// NewApplySettingsHandler returns a handler applying payloads through admin.
func NewApplySettingsHandler(admin Admin, logger interfaces.Logger) *commands.Handler[ApplySettingsCommand] {
	logger = commands.EnsureLogger(logger)
	return commands.NewHandler(func(ctx context.Context, msg ApplySettingsCommand) error {
		stored, err := admin.ApplyJSON(ctx, msg.Payload)
		if err != nil {
			return err
		}
		logger.Info("settings.command.applied", "ui_style", stored.UIStyle.String())
		return nil
	},
		commands.WithLogger[ApplySettingsCommand](logger),
		commands.WithOperation[ApplySettingsCommand]("settings.apply"),
	)
}

// ResetSettingsCommand restores the configured defaults.
type ResetSettingsCommand struct{}

// Type implements command.Message.
func (ResetSettingsCommand) Type() string { return resetSettingsMessageType }

// Validate satisfies command.Message.
func (ResetSettingsCommand) Validate() error { return nil }

// NewResetSettingsHandler returns a handler resetting settings through admin.
func NewResetSettingsHandler(admin Admin, logger interfaces.Logger) *commands.Handler[ResetSettingsCommand] {
	return commands.NewHandler(func(ctx context.Context, _ ResetSettingsCommand) error {
		return admin.Reset(ctx)
	},
		commands.WithLogger[ResetSettingsCommand](logger),
		commands.WithOperation[ResetSettingsCommand]("settings.reset"),
	)
}

// ReloadSettingsCommand refreshes the in-process settings snapshot from the
// repository, picking up writes made by other processes.
type ReloadSettingsCommand struct{}

// Type implements command.Message.
func (ReloadSettingsCommand) Type() string { return reloadSettingsMessageType }

// Validate satisfies command.Message.
func (ReloadSettingsCommand) Validate() error { return nil }

// ReloadOption customises the reload handler.
type ReloadOption func(*ReloadSettingsHandler)

// ReloadWithCronExpression overrides the cron expression.
func ReloadWithCronExpression(expression string) ReloadOption {
	return func(h *ReloadSettingsHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cron.Expression = trimmed
		}
	}
}

// ReloadSettingsHandler reloads the settings snapshot.
type ReloadSettingsHandler struct {
	state   *settings.State
	repo    settings.Repository
	logger  interfaces.Logger
	cron    command.HandlerConfig
	timeout time.Duration
}

// NewReloadSettingsHandler constructs the reload handler.
func NewReloadSettingsHandler(state *settings.State, repo settings.Repository, logger interfaces.Logger, opts ...ReloadOption) *ReloadSettingsHandler {
	h := &ReloadSettingsHandler{
		state:   state,
		repo:    repo,
		logger:  commands.EnsureLogger(logger),
		cron:    command.HandlerConfig{Expression: DefaultReloadExpression},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute satisfies command.Commander[ReloadSettingsCommand].
func (h *ReloadSettingsHandler) Execute(ctx context.Context, _ ReloadSettingsCommand) error {
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	stored, err := h.repo.Get(ctx)
	switch {
	case errors.Is(err, settings.ErrSettingsNotFound):
		h.state.Apply(settings.ChangeEvent{Type: settings.ChangeDeleted})
	case err != nil:
		return commands.WrapExecuteError(err)
	default:
		h.state.Store(stored)
	}
	logging.WithFields(h.logger, map[string]any{
		"operation": "settings.reload",
		"ui_style":  h.state.Snapshot().UIStyle.String(),
	}).Debug("settings.command.reloaded")
	return nil
}

// CronHandler satisfies command.CronCommand.
func (h *ReloadSettingsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), ReloadSettingsCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *ReloadSettingsHandler) CronOptions() command.HandlerConfig {
	return h.cron
}
