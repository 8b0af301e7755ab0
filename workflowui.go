package workflowui

import (
	"context"
	"errors"
	"strings"

	adminsettings "github.com/goliatone/go-workflowui/internal/admin/settings"
	"github.com/goliatone/go-workflowui/internal/commit"
	"github.com/goliatone/go-workflowui/internal/content"
	"github.com/goliatone/go-workflowui/internal/di"
	"github.com/goliatone/go-workflowui/internal/domain"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/permissions"
	"github.com/goliatone/go-workflowui/internal/rules"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/internal/tokens"
	"github.com/goliatone/go-workflowui/internal/transform"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// Tree exports the form control tree.
type Tree = form.Tree

// Control exports a node of the form control tree.
type Control = form.Control

// FormState exports the submission state handed to Submit.
type FormState = form.State

// Handler exports the submit handler contract.
type Handler = form.Handler

// HandlerFunc adapts a function into a Handler.
type HandlerFunc = form.HandlerFunc

// Settings exports the admin configured presentation settings.
type Settings = settings.Settings

// UIStyle exports the presentation style of the workflow control.
type UIStyle = domain.UIStyle

// RuleProperty exports the rule engine property declaration.
type RuleProperty = rules.Property

// SettingsAdminService exports the admin settings service.
type SettingsAdminService = *adminsettings.Service

const (
	UIStyleRadios   = domain.UIStyleRadios
	UIStyleButtons  = domain.UIStyleButtons
	UIStyleDropdown = domain.UIStyleDropdown
)

// Submit handler names registered by the module.
const (
	HandlerCommitTransition = form.HandlerCommitTransition
	HandlerContentSave      = form.HandlerContentSave
)

// Rule engine property names.
const (
	PropertyStateAge    = rules.PropertyStateAge
	PropertyModifiedAge = rules.PropertyModifiedAge
)

// FormContext carries the request inputs of FormAlter.
type FormContext struct {
	// Path is the request path, used to locate the content item when the
	// form carries none.
	Path string
	User *interfaces.User
	Item *interfaces.ContentItem
	// Permissions gates the passive state display. Nil allows everything.
	Permissions permissions.Checker
}

// Module represents the top level workflow form runtime façade.
type Module struct {
	container *di.Container
	logger    interfaces.Logger
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		logger:    logging.ModuleLogger(container.LoggerProvider(), "workflowui"),
	}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Start keeps the settings snapshot in sync with the settings store until
// ctx is cancelled.
func (m *Module) Start(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Start(ctx)
}

// Close releases the storage owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// FormAlter decorates a workflow form according to the current settings and
// returns the mutated tree.
func (m *Module) FormAlter(ctx context.Context, tree *form.Tree, fc FormContext) (*form.Tree, error) {
	if m == nil || m.container == nil || tree == nil {
		return tree, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if fc.Permissions != nil {
		ctx = permissions.WithChecker(ctx, fc.Permissions)
	}

	req := transform.Request{
		Settings: m.container.SettingsState().Snapshot(),
		User:     fc.User,
		Item:     fc.Item,
	}
	if req.Item == nil && tree.Content == nil && strings.TrimSpace(fc.Path) != "" {
		item, err := content.FromPath(ctx, m.container.ContentStore(), fc.Path)
		switch {
		case err == nil:
			req.Item = item
		case !errors.Is(err, content.ErrNoContentPath):
			m.logger.Debug("workflowui.form.path_lookup_failed", "path", fc.Path, "error", err)
		}
	}
	return m.container.Transformer().Transform(ctx, tree, req)
}

// Submit runs the handler chain of the activated control, falling back to
// the tree's chain, and returns the resulting state.
func (m *Module) Submit(ctx context.Context, tree *form.Tree, state *form.State) (*form.State, error) {
	if state == nil {
		state = form.NewState(nil)
	}
	if m == nil || m.container == nil {
		return state, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	chain := state.Chain(tree)
	if err := m.container.Handlers().Run(ctx, chain, tree, state); err != nil {
		return state, err
	}
	return state, nil
}

// RegisterHandler adds or replaces a submit handler, typically the host's
// own save logic.
func (m *Module) RegisterHandler(name string, handler form.Handler) {
	m.container.Handlers().Register(name, handler)
}

// WithActor stores the acting user on ctx for transition activity records.
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return commit.WithActor(ctx, actor)
}

// StateAge returns the seconds since the item last changed workflow state,
// or 0 when it never did.
func (m *Module) StateAge(ctx context.Context, contentID uuid.UUID) (int64, error) {
	return m.container.Ages().StateAge(ctx, contentID)
}

// ModifiedAge returns the seconds since item was last modified.
func (m *Module) ModifiedAge(item *interfaces.ContentItem) int64 {
	return m.container.Ages().ModifiedAge(item)
}

// Rules declares the values the module exposes to a rule engine.
func (m *Module) Rules() []RuleProperty {
	return m.container.Ages().Properties()
}

// RuleValue evaluates a declared rule property for item.
func (m *Module) RuleValue(ctx context.Context, name string, item *interfaces.ContentItem) (int64, error) {
	return m.container.Ages().Value(ctx, name, item)
}

// Settings returns the settings snapshot used by the next FormAlter call.
func (m *Module) Settings() Settings {
	return m.container.SettingsState().Snapshot()
}

// SettingsAdmin returns the admin settings service.
func (m *Module) SettingsAdmin() SettingsAdminService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.SettingsAdmin()
}

// TokenInfo lists the tokens available to label patterns.
func (m *Module) TokenInfo() []interfaces.TokenInfo {
	return tokens.Info(m.container.TokenEngine())
}

// WorkflowEngine returns the configured workflow engine.
func (m *Module) WorkflowEngine() interfaces.WorkflowEngine {
	return m.container.WorkflowEngine()
}
