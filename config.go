package workflowui

import "github.com/goliatone/go-workflowui/internal/runtimeconfig"

var (
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrUIStyleInvalid            = runtimeconfig.ErrUIStyleInvalid
	ErrWorkflowNameRequired      = runtimeconfig.ErrWorkflowNameRequired
	ErrWorkflowDuplicate         = runtimeconfig.ErrWorkflowDuplicate
	ErrWorkflowStatesRequired    = runtimeconfig.ErrWorkflowStatesRequired
	ErrWorkflowStateInvalid      = runtimeconfig.ErrWorkflowStateInvalid
	ErrWorkflowTransitionInvalid = runtimeconfig.ErrWorkflowTransitionInvalid
)

type (
	Config                   = runtimeconfig.Config
	SiteConfig               = runtimeconfig.SiteConfig
	StorageConfig            = runtimeconfig.StorageConfig
	CacheConfig              = runtimeconfig.CacheConfig
	Features                 = runtimeconfig.Features
	LoggingConfig            = runtimeconfig.LoggingConfig
	DefaultsConfig           = runtimeconfig.DefaultsConfig
	WorkflowConfig           = runtimeconfig.WorkflowConfig
	WorkflowStateConfig      = runtimeconfig.WorkflowStateConfig
	WorkflowTransitionConfig = runtimeconfig.WorkflowTransitionConfig
)

// DefaultConfig returns defaults suitable for an in-memory setup.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
