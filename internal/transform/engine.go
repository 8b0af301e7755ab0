package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/internal/i18n"
	"github.com/goliatone/go-workflowui/internal/labels"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/metrics"
	"github.com/goliatone/go-workflowui/internal/permissions"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// CurrentStateKey is the translation key of the passive state display.
const CurrentStateKey = "workflowui.current_state"

// Outcomes reported to the metrics recorder.
const (
	OutcomeNoWorkflow = "no_workflow"
	OutcomePassive    = "passive"
	OutcomeHidden     = "hidden"
	OutcomeRadios     = "radios"
	OutcomeDropdown   = "dropdown"
	OutcomeButtons    = "buttons"
)

// Request carries the per-request inputs of a transform.
type Request struct {
	Settings settings.Settings
	User     *interfaces.User
	// Item is the content the request is about when the host could not attach
	// one to the form, typically loaded from the request path.
	Item *interfaces.ContentItem
}

// Engine rewrites workflow forms according to the configured UI style.
type Engine struct {
	workflows  interfaces.WorkflowEngine
	content    interfaces.ContentStore
	labels     *labels.Resolver
	translator interfaces.Translator
	locale     string
	metrics    metrics.Recorder
	logger     interfaces.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithContentStore enables loading content referenced by the form.
func WithContentStore(store interfaces.ContentStore) Option {
	return func(e *Engine) {
		e.content = store
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(e *Engine) {
		if recorder != nil {
			e.metrics = recorder
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTranslator sets the translator for the passive state display.
func WithTranslator(translator interfaces.Translator, locale string) Option {
	return func(e *Engine) {
		if translator != nil {
			e.translator = translator
		}
		e.locale = locale
	}
}

// NewEngine constructs a transform engine.
func NewEngine(workflows interfaces.WorkflowEngine, resolver *labels.Resolver, opts ...Option) *Engine {
	if resolver == nil {
		resolver = labels.NewResolver(nil)
	}
	e := &Engine{
		workflows:  workflows,
		labels:     resolver,
		translator: i18n.Default(),
		metrics:    metrics.NoOp(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transform mutates tree in place and returns it. Forms without a workflow
// control are returned untouched.
func (e *Engine) Transform(ctx context.Context, tree *form.Tree, req Request) (*form.Tree, error) {
	if tree == nil || tree.Workflow == nil || e.workflows == nil {
		return tree, nil
	}
	binding := tree.Workflow
	control := tree.Find(binding.Path())
	strategy := SelectStrategy(req.Settings.UIStyle)
	logger := logging.WithFormContext(e.logger, tree.ID, string(tree.Kind()), strategy.Style.String())
	if control == nil {
		e.metrics.FormTransformed(strategy.Style.String(), OutcomeNoWorkflow)
		return tree, nil
	}

	applyTitle(tree, binding, control, req.Settings)

	item, err := e.resolveItem(ctx, tree, req, strategy.Buttons)
	if err != nil {
		return tree, err
	}

	workflowID, ok, err := e.workflowFor(ctx, binding, item)
	if err != nil {
		return tree, fmt.Errorf("transform: workflow lookup: %w", err)
	}
	if !ok {
		e.metrics.FormTransformed(strategy.Style.String(), OutcomeNoWorkflow)
		return tree, nil
	}

	choices, err := e.workflows.LegalStateChoices(ctx, item, workflowID)
	if err != nil {
		return tree, fmt.Errorf("transform: legal state choices: %w", err)
	}
	choices = dedupe(choices)

	subject := labels.Subject{Item: item, User: req.User}

	if len(choices) <= 1 {
		outcome := e.passive(ctx, tree, binding, control, item, choices)
		logger.Debug("transform.passive", "outcome", outcome)
		e.metrics.FormTransformed(strategy.Style.String(), outcome)
		return tree, nil
	}

	switch {
	case strategy.Buttons:
		count := e.buttons(ctx, tree, binding, control, workflowID, item, choices, req.Settings, subject)
		logger.Debug("transform.buttons", "count", count)
		e.metrics.ButtonsRendered(count)
		e.metrics.FormTransformed(strategy.Style.String(), OutcomeButtons)
		return tree, nil
	case strategy.ConvertToSelect:
		control.Type = form.TypeSelect
		e.metrics.FormTransformed(strategy.Style.String(), OutcomeDropdown)
	default:
		e.metrics.FormTransformed(strategy.Style.String(), OutcomeRadios)
	}

	if strategy.LabelSubmit && req.Settings.ButtonLabel != "" {
		if save, _ := primarySave(tree); save != nil {
			save.Value = e.labels.Substitute(ctx, req.Settings.ButtonLabel, "", subject)
		}
	}
	return tree, nil
}

// applyTitle sets the custom title on the workflow group, or on the control
// when it is not grouped.
func applyTitle(tree *form.Tree, binding *form.WorkflowBinding, control *form.Control, cfg settings.Settings) {
	title, ok := cfg.TitleOverride()
	if !ok {
		return
	}
	target := control
	if group := tree.Find(binding.Group); binding.Group != "" && group != nil {
		target = group
	}
	if cfg.OmitTitle() {
		target.Title = nil
		return
	}
	target.Title = form.String(title)
}

// resolveItem picks the content context. The workflow tab carries its item;
// other forms may reference one by id, which is only loaded for buttons.
func (e *Engine) resolveItem(ctx context.Context, tree *form.Tree, req Request, load bool) (*interfaces.ContentItem, error) {
	if tree.Kind() == form.KindWorkflowTab && tree.Content != nil {
		return tree.Content, nil
	}
	if load && e.content != nil {
		if field := tree.Find(form.ContentIDKey); field != nil {
			if id, err := uuid.Parse(strings.TrimSpace(field.Value)); err == nil && id != uuid.Nil {
				item, err := e.content.GetByID(ctx, id)
				if err != nil {
					return nil, fmt.Errorf("transform: load content %s: %w", id, err)
				}
				return item, nil
			}
		}
	}
	if tree.Content != nil {
		return tree.Content, nil
	}
	return req.Item, nil
}

func (e *Engine) workflowFor(ctx context.Context, binding *form.WorkflowBinding, item *interfaces.ContentItem) (uuid.UUID, bool, error) {
	if binding.WorkflowID != uuid.Nil {
		return binding.WorkflowID, true, nil
	}
	if item == nil || item.Type == "" {
		return uuid.Nil, false, nil
	}
	return e.workflows.WorkflowForContentType(ctx, item.Type)
}

// passive replaces the control with a read-only state display, or removes
// the workflow group when the user may not see it.
func (e *Engine) passive(ctx context.Context, tree *form.Tree, binding *form.WorkflowBinding, control *form.Control, item *interfaces.ContentItem, choices []interfaces.StateChoice) string {
	if !permissions.Allowed(ctx, permissions.WorkflowStateView) {
		if binding.Group != "" && tree.Find(binding.Group) != nil {
			tree.Remove(binding.Group)
		} else {
			tree.Remove(binding.Path())
		}
		return OutcomeHidden
	}

	name := ""
	if len(choices) == 1 {
		name = choices[0].Name
	} else if id := e.currentState(ctx, control, item); id != 0 {
		name, _ = e.workflows.StateName(ctx, id)
	}

	control.Type = form.TypeItem
	control.Options = nil
	control.DefaultValue = ""
	control.Submit = nil
	control.Value = e.translate(CurrentStateKey, `Current state: %s`, name)
	return OutcomePassive
}

// buttons runs the button replacement and returns the number of buttons.
func (e *Engine) buttons(
	ctx context.Context,
	tree *form.Tree,
	binding *form.WorkflowBinding,
	control *form.Control,
	workflowID uuid.UUID,
	item *interfaces.ContentItem,
	choices []interfaces.StateChoice,
	cfg settings.Settings,
	subject labels.Subject,
) int {
	current := e.currentState(ctx, control, item)
	currentName := e.stateName(ctx, current, choices)

	originalChain := append([]string(nil), tree.Submit...)
	save, inGroup := primarySave(tree)
	if len(originalChain) == 0 && save != nil {
		originalChain = append([]string(nil), save.Submit...)
	}
	saveWeight := 0
	if save != nil {
		saveWeight = save.Weight
	}

	var chain []string
	switch {
	case tree.Kind() == form.KindContentEdit:
		chain = []string{form.HandlerCommitTransition, form.HandlerContentSave}
	case len(originalChain) > 0:
		chain = append([]string{form.HandlerCommitTransition}, originalChain...)
	}

	group := ensureActions(tree, saveWeight)
	count := 0
	for _, choice := range choices {
		if choice.ID == current {
			continue
		}
		group.AddChild(&form.Control{
			Key:    "submit_to_" + strconv.Itoa(int(choice.ID)),
			Type:   form.TypeSubmit,
			Value:  e.labels.LabelFor(ctx, workflowID, currentName, choice.Name, cfg.ButtonLabel, subject),
			Weight: saveWeight + 1,
			Submit: append([]string(nil), chain...),
			Attributes: map[string]string{
				"class": "workflow-button workflow-to-" + cssToken(choice.Name),
			},
			Route: &form.Route{StateID: choice.ID, Field: binding.Field},
		})
		count++
	}

	removeWorkflowControl(tree, binding)

	var kept *form.Control
	switch {
	case tree.Kind() == form.KindComment && save != nil:
		kept = save.Clone()
		kept.Key = form.SaveKey
		kept.Weight = saveWeight - 1
		kept.Submit = append([]string(nil), originalChain...)
		group.AddChild(kept)
	case inGroup:
		kept = save
		if len(kept.Submit) == 0 {
			kept.Submit = append([]string(nil), originalChain...)
		}
	}
	if kept != nil && cfg.SaveLabel != "" && tree.Kind() != form.KindWorkflowTab {
		kept.Value = e.labels.Substitute(ctx, cfg.SaveLabel, "", subject)
	}

	switch {
	case save != nil && !inGroup:
		tree.Remove(form.SubmitKey)
	case save != nil && kept != save:
		tree.Remove(form.ActionsKey + "/" + form.SubmitKey)
	}
	tree.Submit = nil
	return count
}

func (e *Engine) currentState(ctx context.Context, control *form.Control, item *interfaces.ContentItem) interfaces.StateID {
	if item != nil && item.StateID != 0 {
		return item.StateID
	}
	if control != nil {
		if id, err := strconv.Atoi(strings.TrimSpace(control.DefaultValue)); err == nil && id > 0 {
			return interfaces.StateID(id)
		}
	}
	if item != nil && !item.IsNew() {
		if id, err := e.workflows.CurrentState(ctx, item.ID); err == nil {
			return id
		}
	}
	return 0
}

func (e *Engine) stateName(ctx context.Context, id interfaces.StateID, choices []interfaces.StateChoice) string {
	if id == 0 {
		return ""
	}
	if name, err := e.workflows.StateName(ctx, id); err == nil && name != "" {
		return name
	}
	for _, choice := range choices {
		if choice.ID == id {
			return choice.Name
		}
	}
	return ""
}

func (e *Engine) translate(key, fallback string, args ...any) string {
	msg, err := e.translator.Translate(e.locale, key, args...)
	if err != nil || msg == "" || msg == key {
		return fmt.Sprintf(fallback, args...)
	}
	return msg
}

// primarySave returns the generic save control, preferring the one inside
// the actions group.
func primarySave(tree *form.Tree) (*form.Control, bool) {
	if save := tree.Find(form.ActionsKey + "/" + form.SubmitKey); save != nil {
		return save, true
	}
	return tree.Find(form.SubmitKey), false
}

func ensureActions(tree *form.Tree, weight int) *form.Control {
	if group := tree.Find(form.ActionsKey); group != nil {
		return group
	}
	group := &form.Control{Key: form.ActionsKey, Type: form.TypeActions, Weight: weight}
	tree.Add("", group)
	return group
}

// removeWorkflowControl drops the state control and its group unless the
// group still holds the scheduling control or a visible comment.
func removeWorkflowControl(tree *form.Tree, binding *form.WorkflowBinding) {
	tree.Remove(binding.Path())
	if binding.Group == "" {
		return
	}
	group := tree.Find(binding.Group)
	if group == nil {
		return
	}
	for _, child := range group.Children {
		if child.Key == form.ScheduledKey || (child.Key == form.CommentKey && child.Visible()) {
			return
		}
	}
	tree.Remove(binding.Group)
}

// cssToken turns a state name into a class name suffix.
func cssToken(name string) string {
	if token, err := slug.Normalize(name); err == nil && token != "" {
		return token
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func dedupe(choices []interfaces.StateChoice) []interfaces.StateChoice {
	seen := make(map[interfaces.StateID]struct{}, len(choices))
	out := choices[:0:0]
	for _, choice := range choices {
		if _, ok := seen[choice.ID]; ok {
			continue
		}
		seen[choice.ID] = struct{}{}
		out = append(out, choice)
	}
	return out
}
