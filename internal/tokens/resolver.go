package tokens

import (
	"context"

	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// Resolver renders tokenized patterns against a content item and acting user.
type Resolver struct {
	replacer interfaces.TokenReplacer
	logger   interfaces.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger overrides the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a resolver. A nil replacer makes Resolve return
// patterns unchanged.
func NewResolver(replacer interfaces.TokenReplacer, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		replacer: replacer,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes tokens in pattern. The workflow namespace aliases the
// content item. Replacer failures are logged and the pattern is returned as is.
func (r *Resolver) Resolve(ctx context.Context, pattern string, item *interfaces.ContentItem, user *interfaces.User) string {
	if r == nil || r.replacer == nil || pattern == "" {
		return pattern
	}

	data := interfaces.TokenContext{
		Global:   true,
		User:     user,
		Node:     item,
		Workflow: item,
	}
	out, err := r.replacer.Replace(ctx, pattern, data)
	if err != nil {
		r.logger.Debug("tokens.replace.failed", "pattern", pattern, "error", err)
		return pattern
	}
	return out
}

// NoOp returns a replacer that leaves patterns untouched.
func NoOp() interfaces.TokenReplacer {
	return noopReplacer{}
}

type noopReplacer struct{}

func (noopReplacer) Replace(_ context.Context, pattern string, _ interfaces.TokenContext) (string, error) {
	return pattern, nil
}
