package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

const (
	rootModule     = "workflowui"
	formModule     = "workflowui.form"
	labelsModule   = "workflowui.labels"
	tokensModule   = "workflowui.tokens"
	commitModule   = "workflowui.commit"
	settingsModule = "workflowui.settings"
	rulesModule    = "workflowui.rules"
)

const (
	fieldFormID   = "form_id"
	fieldFormKind = "form_kind"
	fieldUIStyle  = "ui_style"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FormLogger returns the logger namespace reserved for form transforms.
func FormLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formModule)
}

// LabelsLogger returns the logger namespace reserved for transition labels.
func LabelsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, labelsModule)
}

// TokensLogger returns the logger namespace reserved for token substitution.
func TokensLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tokensModule)
}

// CommitLogger returns the logger namespace reserved for submit-time commits.
func CommitLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commitModule)
}

// SettingsLogger returns the logger namespace reserved for admin settings.
func SettingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, settingsModule)
}

// RulesLogger returns the logger namespace reserved for rule engine values.
func RulesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rulesModule)
}

// WithFormContext enriches the logger with the form id, kind and UI style.
// Empty values are ignored.
func WithFormContext(logger interfaces.Logger, formID, kind, style string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(formID); trimmed != "" {
		fields[fieldFormID] = trimmed
	}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldFormKind] = trimmed
	}
	if trimmed := strings.TrimSpace(style); trimmed != "" {
		fields[fieldUIStyle] = trimmed
	}
	return WithFields(logger, fields)
}

// WithFields returns a child logger carrying the non-nil entries of fields.
// Loggers without the FieldsLogger extension are returned as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	kept := make(map[string]any, len(fields))
	for key, value := range fields {
		if key == "" || value == nil {
			continue
		}
		kept[key] = value
	}
	if len(kept) == 0 {
		return logger
	}
	return fl.WithFields(kept)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
