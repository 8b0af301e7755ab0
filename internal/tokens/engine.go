package tokens

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// tokenPattern matches [namespace-name] placeholders.
var tokenPattern = regexp.MustCompile(`\[([a-z][a-z0-9_]*)-([a-z0-9_:\-]+)\]`)

// Provider resolves the tokens of one namespace. ok is false for tokens the
// provider does not know, which leaves the placeholder untouched.
type Provider interface {
	Token(ctx context.Context, name string, data interfaces.TokenContext) (value string, ok bool, err error)
	Info() []interfaces.TokenInfo
}

// Engine is a TokenReplacer dispatching placeholders to namespace providers.
type Engine struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

var _ interfaces.TokenReplacer = (*Engine)(nil)

// NewEngine constructs an engine with no providers.
func NewEngine() *Engine {
	return &Engine{providers: make(map[string]Provider)}
}

// Register binds a provider to a namespace, replacing any previous binding.
func (e *Engine) Register(namespace string, provider Provider) {
	namespace = strings.ToLower(strings.TrimSpace(namespace))
	if namespace == "" || provider == nil {
		return
	}
	e.mu.Lock()
	e.providers[namespace] = provider
	e.mu.Unlock()
}

// Replace substitutes every known token in pattern.
func (e *Engine) Replace(ctx context.Context, pattern string, data interfaces.TokenContext) (string, error) {
	if !strings.Contains(pattern, "[") {
		return pattern, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		if firstErr != nil {
			return match
		}
		parts := tokenPattern.FindStringSubmatch(match)
		provider, ok := e.providers[parts[1]]
		if !ok {
			return match
		}
		value, ok, err := provider.Token(ctx, parts[2], data)
		if err != nil {
			firstErr = fmt.Errorf("tokens: %s: %w", match, err)
			return match
		}
		if !ok {
			return match
		}
		return value
	})
	if firstErr != nil {
		return pattern, firstErr
	}
	return out, nil
}

// Info lists the tokens declared by every registered provider, sorted by namespace.
func (e *Engine) Info() []interfaces.TokenInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	namespaces := make([]string, 0, len(e.providers))
	for ns := range e.providers {
		namespaces = append(namespaces, ns)
	}
	slices.Sort(namespaces)

	var out []interfaces.TokenInfo
	for _, ns := range namespaces {
		out = append(out, e.providers[ns].Info()...)
	}
	return out
}
