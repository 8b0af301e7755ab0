package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrLoggingProviderRequired = errors.New("workflowui config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("workflowui config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("workflowui config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("workflowui config: logging format is invalid")

// ErrStorageDriverUnknown reports a storage driver other than sqlite3 or postgres.
var ErrStorageDriverUnknown = errors.New("workflowui config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("workflowui config: storage dsn is required")
var ErrUIStyleInvalid = errors.New("workflowui config: default ui style is invalid")

// ErrWorkflowNameRequired and friends guard the workflow definitions block.
var ErrWorkflowNameRequired = errors.New("workflowui config: workflow name is required")
var ErrWorkflowDuplicate = errors.New("workflowui config: workflow defined more than once")
var ErrWorkflowStatesRequired = errors.New("workflowui config: workflow requires at least one state")
var ErrWorkflowStateInvalid = errors.New("workflowui config: workflow state is invalid")
var ErrWorkflowTransitionInvalid = errors.New("workflowui config: workflow transition references an unknown state")

// Config aggregates feature flags, defaults and workflow definitions for the module.
type Config struct {
	Enabled       bool             `yaml:"enabled"`
	DefaultLocale string           `yaml:"default_locale"`
	Translations  string           `yaml:"translations"`
	Site          SiteConfig       `yaml:"site"`
	Storage       StorageConfig    `yaml:"storage"`
	Cache         CacheConfig      `yaml:"cache"`
	Features      Features         `yaml:"features"`
	Logging       LoggingConfig    `yaml:"logging"`
	Defaults      DefaultsConfig   `yaml:"defaults"`
	Workflows     []WorkflowConfig `yaml:"workflows"`
}

// SiteConfig feeds the site token namespace.
type SiteConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig selects the SQL backend for the reference stores. An empty
// driver keeps everything in memory.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// Features toggles module functionality.
type Features struct {
	Logger           bool `yaml:"logger"`
	Tokens           bool `yaml:"tokens"`
	NamedTransitions bool `yaml:"named_transitions"`
	Metrics          bool `yaml:"metrics"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultsConfig seeds the admin settings when the store is empty.
type DefaultsConfig struct {
	UIStyle     string `yaml:"ui_style"`
	FormTitle   string `yaml:"form_title"`
	SaveLabel   string `yaml:"save_label"`
	ButtonLabel string `yaml:"button_label"`
}

// WorkflowConfig describes a workflow served by the reference engine.
type WorkflowConfig struct {
	Name         string                     `yaml:"name"`
	ContentTypes []string                   `yaml:"content_types"`
	States       []WorkflowStateConfig      `yaml:"states"`
	Transitions  []WorkflowTransitionConfig `yaml:"transitions"`
}

// WorkflowStateConfig describes one state. IDs must be positive and unique
// within the workflow.
type WorkflowStateConfig struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Initial bool   `yaml:"initial"`
	Retired bool   `yaml:"retired"`
}

// WorkflowTransitionConfig declares a legal move between two states by name.
// Label is optional and acts as a named-transition override.
type WorkflowTransitionConfig struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label"`
}

// DefaultConfig returns defaults suitable for an in-memory setup.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
		Defaults: DefaultsConfig{
			UIStyle: "radios",
		},
	}
}

// LoadFile reads a YAML document on top of DefaultConfig and validates it.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("workflowui config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document on top of DefaultConfig and validates it.
func Parse(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("workflowui config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if driver := normalize(cfg.Storage.Driver); driver != "" {
		if !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if style := normalize(cfg.Defaults.UIStyle); style != "" && !isSupportedStyle(style) {
		return fmt.Errorf("%w: %s", ErrUIStyleInvalid, style)
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return validateWorkflows(cfg.Workflows)
}

func validateWorkflows(workflows []WorkflowConfig) error {
	seen := map[string]struct{}{}
	for _, wf := range workflows {
		name := strings.TrimSpace(wf.Name)
		if name == "" {
			return ErrWorkflowNameRequired
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrWorkflowDuplicate, name)
		}
		seen[key] = struct{}{}

		if len(wf.States) == 0 {
			return fmt.Errorf("%w: %s", ErrWorkflowStatesRequired, name)
		}
		ids := map[int]struct{}{}
		names := map[string]struct{}{}
		for _, state := range wf.States {
			stateName := strings.TrimSpace(state.Name)
			if state.ID <= 0 || stateName == "" {
				return fmt.Errorf("%w: %s/%d", ErrWorkflowStateInvalid, name, state.ID)
			}
			if _, dup := ids[state.ID]; dup {
				return fmt.Errorf("%w: %s duplicate id %d", ErrWorkflowStateInvalid, name, state.ID)
			}
			if _, dup := names[strings.ToLower(stateName)]; dup {
				return fmt.Errorf("%w: %s duplicate name %q", ErrWorkflowStateInvalid, name, stateName)
			}
			ids[state.ID] = struct{}{}
			names[strings.ToLower(stateName)] = struct{}{}
		}
		for _, tr := range wf.Transitions {
			if _, ok := names[strings.ToLower(strings.TrimSpace(tr.From))]; !ok {
				return fmt.Errorf("%w: %s from %q", ErrWorkflowTransitionInvalid, name, tr.From)
			}
			if _, ok := names[strings.ToLower(strings.TrimSpace(tr.To))]; !ok {
				return fmt.Errorf("%w: %s to %q", ErrWorkflowTransitionInvalid, name, tr.To)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite3", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedStyle(style string) bool {
	switch style {
	case "radios", "buttons", "dropdown", "select", "0", "1", "2":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
