package commands

import (
	"strings"

	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

const commandModuleRoot = "workflowui.commands"

// CommandLogger returns a module scoped logger for command handlers annotated
// with the command module name.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
