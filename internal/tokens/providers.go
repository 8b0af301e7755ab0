package tokens

import (
	"context"
	"strconv"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// Namespaces served by the built-in providers.
const (
	NamespaceSite     = "site"
	NamespaceDate     = "date"
	NamespaceUser     = "user"
	NamespaceNode     = "node"
	NamespaceWorkflow = "workflow"
)

// NewStateNameToken is replaced locally with the destination state of a
// transition, after every other token has been resolved.
const NewStateNameToken = "[workflow-new-state-name]"

var newStateNameInfo = interfaces.TokenInfo{
	Namespace:   NamespaceWorkflow,
	Name:        "new-state-name",
	Description: "Name of the state a transition button moves to.",
}

// ProviderFunc adapts a lookup function and its declarations into a Provider.
type ProviderFunc struct {
	Lookup func(ctx context.Context, name string, data interfaces.TokenContext) (string, bool, error)
	Tokens []interfaces.TokenInfo
}

func (p ProviderFunc) Token(ctx context.Context, name string, data interfaces.TokenContext) (string, bool, error) {
	if p.Lookup == nil {
		return "", false, nil
	}
	return p.Lookup(ctx, name, data)
}

func (p ProviderFunc) Info() []interfaces.TokenInfo {
	return append([]interfaces.TokenInfo(nil), p.Tokens...)
}

// SiteProvider serves [site-*] tokens.
func SiteProvider(name string) Provider {
	return ProviderFunc{
		Lookup: func(_ context.Context, token string, _ interfaces.TokenContext) (string, bool, error) {
			if token == "name" {
				return name, true, nil
			}
			return "", false, nil
		},
		Tokens: []interfaces.TokenInfo{
			{Namespace: NamespaceSite, Name: "name", Description: "The name of the site."},
		},
	}
}

// DateProvider serves [date-*] tokens from the supplied clock.
func DateProvider(now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	return ProviderFunc{
		Lookup: func(_ context.Context, token string, _ interfaces.TokenContext) (string, bool, error) {
			ts := now()
			switch token {
			case "short":
				return ts.Format("2006-01-02 15:04"), true, nil
			case "long":
				return ts.Format("Monday, January 2, 2006 - 15:04"), true, nil
			case "iso":
				return ts.Format(time.RFC3339), true, nil
			case "year":
				return strconv.Itoa(ts.Year()), true, nil
			}
			return "", false, nil
		},
		Tokens: []interfaces.TokenInfo{
			{Namespace: NamespaceDate, Name: "short", Description: "Current date and time, short format."},
			{Namespace: NamespaceDate, Name: "long", Description: "Current date and time, long format."},
			{Namespace: NamespaceDate, Name: "iso", Description: "Current date and time, RFC 3339."},
			{Namespace: NamespaceDate, Name: "year", Description: "Current year."},
		},
	}
}

// UserProvider serves [user-*] tokens for the acting user.
func UserProvider() Provider {
	return ProviderFunc{
		Lookup: func(_ context.Context, token string, data interfaces.TokenContext) (string, bool, error) {
			if data.User == nil {
				return "", false, nil
			}
			switch token {
			case "name":
				return data.User.Name, true, nil
			case "mail":
				return data.User.Email, true, nil
			case "id":
				return data.User.ID.String(), true, nil
			}
			return "", false, nil
		},
		Tokens: []interfaces.TokenInfo{
			{Namespace: NamespaceUser, Name: "name", Description: "Name of the acting user."},
			{Namespace: NamespaceUser, Name: "mail", Description: "Email address of the acting user."},
			{Namespace: NamespaceUser, Name: "id", Description: "Identifier of the acting user."},
		},
	}
}

// NodeProvider serves [node-*] tokens for the content item.
func NodeProvider() Provider {
	return ProviderFunc{
		Lookup: func(_ context.Context, token string, data interfaces.TokenContext) (string, bool, error) {
			item := data.Node
			if item == nil {
				return "", false, nil
			}
			switch token {
			case "title":
				return item.Title, true, nil
			case "type":
				return item.Type, true, nil
			case "id":
				if item.IsNew() {
					return "", true, nil
				}
				return item.ID.String(), true, nil
			case "slug":
				if item.Slug != "" {
					return item.Slug, true, nil
				}
				normalized, err := slug.Normalize(item.Title)
				if err != nil {
					return "", false, err
				}
				return normalized, true, nil
			case "changed":
				if item.ChangedAt.IsZero() {
					return "", true, nil
				}
				return item.ChangedAt.UTC().Format(time.RFC3339), true, nil
			}
			return "", false, nil
		},
		Tokens: []interfaces.TokenInfo{
			{Namespace: NamespaceNode, Name: "title", Description: "Title of the content item."},
			{Namespace: NamespaceNode, Name: "type", Description: "Content type of the item."},
			{Namespace: NamespaceNode, Name: "id", Description: "Identifier of the content item."},
			{Namespace: NamespaceNode, Name: "slug", Description: "URL slug of the content item."},
			{Namespace: NamespaceNode, Name: "changed", Description: "Last modification time of the content item."},
		},
	}
}

// WorkflowProvider serves [workflow-*] tokens. The destination state token is
// left for local substitution.
func WorkflowProvider(engine interfaces.WorkflowEngine) Provider {
	return ProviderFunc{
		Lookup: func(ctx context.Context, token string, data interfaces.TokenContext) (string, bool, error) {
			item := data.Workflow
			if item == nil || engine == nil {
				return "", false, nil
			}
			switch token {
			case "current-state-name":
				state, err := currentState(ctx, engine, item)
				if err != nil || state == 0 {
					return "", false, nil
				}
				name, err := engine.StateName(ctx, state)
				if err != nil {
					return "", false, nil
				}
				return name, true, nil
			case "current-state-id":
				state, err := currentState(ctx, engine, item)
				if err != nil || state == 0 {
					return "", false, nil
				}
				return strconv.Itoa(int(state)), true, nil
			}
			return "", false, nil
		},
		Tokens: []interfaces.TokenInfo{
			{Namespace: NamespaceWorkflow, Name: "current-state-name", Description: "Name of the current workflow state."},
			{Namespace: NamespaceWorkflow, Name: "current-state-id", Description: "Identifier of the current workflow state."},
			newStateNameInfo,
		},
	}
}

func currentState(ctx context.Context, engine interfaces.WorkflowEngine, item *interfaces.ContentItem) (interfaces.StateID, error) {
	if item.StateID != 0 {
		return item.StateID, nil
	}
	if item.IsNew() {
		return 0, nil
	}
	return engine.CurrentState(ctx, item.ID)
}

// Info declares the tokens available to label patterns, including the local
// destination state token.
func Info(engine *Engine) []interfaces.TokenInfo {
	var out []interfaces.TokenInfo
	if engine != nil {
		out = engine.Info()
	}
	for _, info := range out {
		if info == newStateNameInfo {
			return out
		}
	}
	return append(out, newStateNameInfo)
}

// NewDefaultEngine registers the built-in providers.
func NewDefaultEngine(siteName string, workflows interfaces.WorkflowEngine, now func() time.Time) *Engine {
	engine := NewEngine()
	engine.Register(NamespaceSite, SiteProvider(siteName))
	engine.Register(NamespaceDate, DateProvider(now))
	engine.Register(NamespaceUser, UserProvider())
	engine.Register(NamespaceNode, NodeProvider())
	engine.Register(NamespaceWorkflow, WorkflowProvider(workflows))
	return engine
}
