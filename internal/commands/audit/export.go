package auditcmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-workflowui/internal/audit"
	"github.com/goliatone/go-workflowui/internal/commands"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

const exportAuditMessageType = "workflowui.audit.export"

// AuditLog exposes the recorded settings audit trail.
type AuditLog interface {
	List(ctx context.Context) ([]audit.Event, error)
}

// ExportAuditCommand writes recorded audit events to the logger. Action
// narrows the export to one action, e.g. workflowui_settings_updated.
type ExportAuditCommand struct {
	Action     string `json:"action,omitempty"`
	MaxRecords *int   `json:"max_records,omitempty"`
}

// Type implements command.Message.
func (ExportAuditCommand) Type() string { return exportAuditMessageType }

// Validate ensures the command payload is well-formed.
func (m ExportAuditCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Action, validation.Length(0, 128)),
		validation.Field(&m.MaxRecords, validation.By(func(any) error {
			if m.MaxRecords != nil && *m.MaxRecords < 0 {
				return validation.NewError("workflowui.audit.export.max_records_invalid", "max_records must be zero or positive")
			}
			return nil
		})),
	)
}

// ExportAuditHandler logs audit events up to the requested limit.
type ExportAuditHandler struct {
	log     AuditLog
	logger  interfaces.Logger
	timeout time.Duration
}

// NewExportAuditHandler constructs the export handler.
func NewExportAuditHandler(log AuditLog, logger interfaces.Logger) *ExportAuditHandler {
	return &ExportAuditHandler{
		log:     log,
		logger:  commands.EnsureLogger(logger),
		timeout: commands.DefaultCommandTimeout,
	}
}

// Execute satisfies command.Commander[ExportAuditCommand].
func (h *ExportAuditHandler) Execute(ctx context.Context, msg ExportAuditCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	events, err := h.log.List(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}
	events = filterByAction(events, msg.Action)

	limit := len(events)
	if msg.MaxRecords != nil && *msg.MaxRecords < limit {
		limit = *msg.MaxRecords
	}

	logger := logging.WithFields(h.logger, map[string]any{"operation": "audit.export"})
	for idx, event := range events[:limit] {
		logging.WithFields(logger, map[string]any{
			"index":       idx,
			"entity_type": event.EntityType,
			"entity_id":   event.EntityID,
			"action":      event.Action,
			"occurred_at": event.OccurredAt.Format(time.RFC3339),
			"metadata":    event.Metadata,
		}).Debug("audit.command.export.event")
	}
	logging.WithFields(logger, map[string]any{
		"exported": limit,
		"total":    len(events),
	}).Info("audit.command.export.completed")
	return nil
}

// CLIHandler satisfies command.CLICommand.
func (h *ExportAuditHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for audit export.
func (h *ExportAuditHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"workflowui", "audit", "export"},
		Group:       "workflowui",
		Description: "Export the workflow settings audit trail to the logger",
	}
}

func filterByAction(events []audit.Event, action string) []audit.Event {
	action = strings.TrimSpace(action)
	if action == "" {
		return events
	}
	out := make([]audit.Event, 0, len(events))
	for _, event := range events {
		if event.Action == action {
			out = append(out, event)
		}
	}
	return out
}
