package auditcmd

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-workflowui/internal/commands"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

const cleanupAuditMessageType = "workflowui.audit.cleanup"

// DefaultCleanupExpression is the cron schedule of the cleanup handler.
const DefaultCleanupExpression = "@weekly"

// AuditCleaner can also drop recorded events.
type AuditCleaner interface {
	AuditLog
	Clear(ctx context.Context) error
}

// CleanupAuditCommand drops recorded audit events. DryRun only reports the count.
type CleanupAuditCommand struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (CleanupAuditCommand) Type() string { return cleanupAuditMessageType }

// Validate satisfies command.Message.
func (CleanupAuditCommand) Validate() error { return nil }

// CleanupOption customises the cleanup handler.
type CleanupOption func(*CleanupAuditHandler)

// CleanupWithCronExpression overrides the cron expression.
func CleanupWithCronExpression(expression string) CleanupOption {
	return func(h *CleanupAuditHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cron.Expression = trimmed
		}
	}
}

// CleanupAuditHandler clears the audit trail, on demand or on a schedule.
type CleanupAuditHandler struct {
	cleaner AuditCleaner
	logger  interfaces.Logger
	cron    command.HandlerConfig
	timeout time.Duration
}

// NewCleanupAuditHandler constructs the cleanup handler.
func NewCleanupAuditHandler(cleaner AuditCleaner, logger interfaces.Logger, opts ...CleanupOption) *CleanupAuditHandler {
	h := &CleanupAuditHandler{
		cleaner: cleaner,
		logger:  commands.EnsureLogger(logger),
		cron:    command.HandlerConfig{Expression: DefaultCleanupExpression},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute satisfies command.Commander[CleanupAuditCommand].
func (h *CleanupAuditHandler) Execute(ctx context.Context, msg CleanupAuditCommand) error {
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	events, err := h.cleaner.List(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}
	logger := logging.WithFields(h.logger, map[string]any{
		"operation": "audit.cleanup",
		"count":     len(events),
	})
	if msg.DryRun {
		logger.Debug("audit.command.cleanup.dry_run")
		return nil
	}
	if err := h.cleaner.Clear(ctx); err != nil {
		return commands.WrapExecuteError(err)
	}
	logger.Info("audit.command.cleanup.removed")
	return nil
}

// CronHandler satisfies command.CronCommand.
func (h *CleanupAuditHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupAuditCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *CleanupAuditHandler) CronOptions() command.HandlerConfig {
	return h.cron
}
