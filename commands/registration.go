package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-workflowui/internal/commands"
	auditcmd "github.com/goliatone/go-workflowui/internal/commands/audit"
	settingscmd "github.com/goliatone/go-workflowui/internal/commands/settings"
	"github.com/goliatone/go-workflowui/internal/commit"
	"github.com/goliatone/go-workflowui/internal/di"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// CleanupAuditCron overrides the default cron expression applied to the audit cleanup handler.
	CleanupAuditCron string
	// ReloadSettingsCron overrides the default cron expression applied to the settings reload handler.
	ReloadSettingsCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	loggerFor := func(module string) interfaces.Logger {
		return internalcommands.CommandLogger(provider, module)
	}
	observe := internalcommands.MetricsObserver(container.Metrics())

	// Audit commands.
	if recorder := container.AuditRecorder(); recorder != nil {
		auditLogger := loggerFor("audit")
		register(auditcmd.NewExportAuditHandler(recorder, auditLogger))
		cleanupOpts := []auditcmd.CleanupOption{}
		if expr := strings.TrimSpace(opts.CleanupAuditCron); expr != "" {
			cleanupOpts = append(cleanupOpts, auditcmd.CleanupWithCronExpression(expr))
		}
		register(auditcmd.NewCleanupAuditHandler(recorder, auditLogger, cleanupOpts...))
	}

	// Settings commands.
	if admin := container.SettingsAdmin(); admin != nil {
		settingsLogger := loggerFor("settings")
		register(settingscmd.NewApplySettingsHandler(admin, settingsLogger).Observe(observe))
		register(settingscmd.NewResetSettingsHandler(admin, settingsLogger).Observe(observe))
	}
	if state, repo := container.SettingsState(), container.SettingsRepository(); state != nil && repo != nil {
		reloadOpts := []settingscmd.ReloadOption{}
		if expr := strings.TrimSpace(opts.ReloadSettingsCron); expr != "" {
			reloadOpts = append(reloadOpts, settingscmd.ReloadWithCronExpression(expr))
		}
		register(settingscmd.NewReloadSettingsHandler(state, repo, loggerFor("settings"), reloadOpts...))
	}

	// Transition commands.
	if assigner := container.Assigner(); assigner != nil {
		register(commit.NewAssignHandler(assigner,
			commit.WithLogger(loggerFor("transition")),
			commit.WithMetrics(container.Metrics()),
		))
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure services are configured and required features enabled")
	}

	return result, errs
}
