package labels

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-workflowui/internal/i18n"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/tokens"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// MoveToKey is the translation key of the fallback label.
const MoveToKey = "workflowui.move_to"

const moveToFallback = `Move to "%s"`

// Subject is the content item and acting user a label is rendered for. Both
// are optional.
type Subject struct {
	Item *interfaces.ContentItem
	User *interfaces.User
}

// Resolver computes the labels shown on transition controls.
type Resolver struct {
	tokens      *tokens.Resolver
	transitions interfaces.NamedTransitions
	translator  interfaces.Translator
	locale      string
	logger      interfaces.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNamedTransitions enables per-transition label overrides.
func WithNamedTransitions(provider interfaces.NamedTransitions) Option {
	return func(r *Resolver) {
		r.transitions = provider
	}
}

// WithTranslator overrides the translator used for the fallback label.
func WithTranslator(translator interfaces.Translator) Option {
	return func(r *Resolver) {
		if translator != nil {
			r.translator = translator
		}
	}
}

// WithLocale selects the locale of the fallback label.
func WithLocale(locale string) Option {
	return func(r *Resolver) {
		r.locale = strings.TrimSpace(locale)
	}
}

// WithLogger overrides the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a label resolver over the token resolver.
func NewResolver(tokenResolver *tokens.Resolver, opts ...Option) *Resolver {
	if tokenResolver == nil {
		tokenResolver = tokens.NewResolver(nil)
	}
	r := &Resolver{
		tokens:     tokenResolver,
		translator: i18n.Default(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LabelFor returns the label of the transition fromName -> toName. A matching
// named transition with a non-empty label wins over the global pattern. The
// result is never blank.
func (r *Resolver) LabelFor(ctx context.Context, workflowID uuid.UUID, fromName, toName, pattern string, subject Subject) string {
	if override, ok := r.override(ctx, workflowID, fromName, toName); ok {
		pattern = override
	}

	label := r.Substitute(ctx, pattern, toName, subject)
	if strings.TrimSpace(label) == "" {
		return r.moveTo(toName)
	}
	return label
}

// Substitute renders pattern: an empty pattern yields the localized
// `Move to "<toName>"`, otherwise tokens are resolved first and every
// [workflow-new-state-name] is then replaced with toName when it is non-empty.
func (r *Resolver) Substitute(ctx context.Context, pattern, toName string, subject Subject) string {
	if pattern == "" {
		return r.moveTo(toName)
	}
	out := r.tokens.Resolve(ctx, pattern, subject.Item, subject.User)
	if toName != "" {
		out = strings.ReplaceAll(out, tokens.NewStateNameToken, toName)
	}
	return out
}

func (r *Resolver) override(ctx context.Context, workflowID uuid.UUID, fromName, toName string) (string, bool) {
	if r.transitions == nil {
		return "", false
	}
	items, err := r.transitions.Transitions(ctx, workflowID)
	if err != nil {
		r.logger.Debug("labels.named_transitions.failed", "workflow_id", workflowID, "error", err)
		return "", false
	}
	for _, item := range items {
		if item.FromState == fromName && item.ToState == toName && item.Label != "" {
			return item.Label, true
		}
	}
	return "", false
}

func (r *Resolver) moveTo(toName string) string {
	msg, err := r.translator.Translate(r.locale, MoveToKey, toName)
	if err != nil || msg == "" || msg == MoveToKey {
		return fmt.Sprintf(moveToFallback, toName)
	}
	return msg
}
