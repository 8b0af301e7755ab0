package interfaces

import "context"

// TokenContext is the set of objects available to token substitution. Workflow aliases
// the content item so workflow-scoped tokens can introspect it.
type TokenContext struct {
	Global   bool
	User     *User
	Node     *ContentItem
	Workflow *ContentItem
}

// TokenReplacer performs token-to-value substitution for [namespace-token] patterns.
type TokenReplacer interface {
	Replace(ctx context.Context, pattern string, data TokenContext) (string, error)
}

// TokenInfo declares a token for admin help text and discovery.
type TokenInfo struct {
	Namespace   string
	Name        string
	Description string
}
