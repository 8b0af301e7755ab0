package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

type stubWorkflowEngine struct {
	names   map[interfaces.StateID]string
	current map[uuid.UUID]interfaces.StateID
}

func (s stubWorkflowEngine) StateName(_ context.Context, id interfaces.StateID) (string, error) {
	name, ok := s.names[id]
	if !ok {
		return "", errors.New("unknown state")
	}
	return name, nil
}

func (s stubWorkflowEngine) CurrentState(_ context.Context, id uuid.UUID) (interfaces.StateID, error) {
	return s.current[id], nil
}

func (stubWorkflowEngine) WorkflowForContentType(context.Context, string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (stubWorkflowEngine) LegalStateChoices(context.Context, *interfaces.ContentItem, uuid.UUID) ([]interfaces.StateChoice, error) {
	return nil, nil
}

type recordingReplacer struct {
	data interfaces.TokenContext
	err  error
}

func (r *recordingReplacer) Replace(_ context.Context, pattern string, data interfaces.TokenContext) (string, error) {
	r.data = data
	if r.err != nil {
		return "", r.err
	}
	return "replaced:" + pattern, nil
}

func TestResolverWithoutReplacerReturnsPattern(t *testing.T) {
	pattern := "Move [node-title] to [workflow-new-state-name] "
	if got := NewResolver(nil).Resolve(context.Background(), pattern, nil, nil); got != pattern {
		t.Fatalf("expected pattern unchanged, got %q", got)
	}
	if got := NewResolver(NoOp()).Resolve(context.Background(), pattern, nil, nil); got != pattern {
		t.Fatalf("expected no-op replacer to keep pattern, got %q", got)
	}
}

func TestResolverBuildsTokenContext(t *testing.T) {
	replacer := &recordingReplacer{}
	item := &interfaces.ContentItem{ID: uuid.New(), Title: "Budget"}
	user := &interfaces.User{Name: "ana"}

	got := NewResolver(replacer).Resolve(context.Background(), "[node-title]", item, user)
	if got != "replaced:[node-title]" {
		t.Fatalf("unexpected output %q", got)
	}
	if !replacer.data.Global || replacer.data.User != user || replacer.data.Node != item || replacer.data.Workflow != item {
		t.Fatalf("unexpected token context %+v", replacer.data)
	}
}

func TestResolverFallsBackOnReplacerError(t *testing.T) {
	replacer := &recordingReplacer{err: errors.New("boom")}
	if got := NewResolver(replacer).Resolve(context.Background(), "[node-title]", nil, nil); got != "[node-title]" {
		t.Fatalf("expected pattern on failure, got %q", got)
	}
}

func TestEngineReplacesKnownTokens(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	contentID := uuid.New()
	workflows := stubWorkflowEngine{
		names:   map[interfaces.StateID]string{1: "Draft", 2: "Review"},
		current: map[uuid.UUID]interfaces.StateID{contentID: 2},
	}
	engine := NewDefaultEngine("Newsroom", workflows, func() time.Time { return now })

	item := &interfaces.ContentItem{ID: contentID, Type: "article", Title: "Breaking"}
	data := interfaces.TokenContext{
		Global:   true,
		User:     &interfaces.User{Name: "ana", Email: "ana@example.com"},
		Node:     item,
		Workflow: item,
	}

	cases := map[string]string{
		"[site-name]":                       "Newsroom",
		"[date-short]":                      "2024-03-09 14:30",
		"[date-year]":                       "2024",
		"[user-name] <[user-mail]>":         "ana <ana@example.com>",
		"[node-title] ([node-type])":        "Breaking (article)",
		"[node-slug]":                       "breaking",
		"[workflow-current-state-name]":     "Review",
		"[workflow-current-state-id]":       "2",
		"Send to [workflow-new-state-name]": "Send to [workflow-new-state-name]",
		"[unknown-token] stays":             "[unknown-token] stays",
		"[node-missing]":                    "[node-missing]",
	}

	for pattern, want := range cases {
		got, err := engine.Replace(context.Background(), pattern, data)
		if err != nil {
			t.Fatalf("Replace(%q): %v", pattern, err)
		}
		if got != want {
			t.Fatalf("Replace(%q): expected %q, got %q", pattern, want, got)
		}
	}
}

func TestEngineWorkflowTokensPreferItemState(t *testing.T) {
	workflows := stubWorkflowEngine{names: map[interfaces.StateID]string{1: "Draft"}}
	engine := NewDefaultEngine("", workflows, nil)
	item := &interfaces.ContentItem{StateID: 1}

	got, err := engine.Replace(context.Background(), "[workflow-current-state-name]", interfaces.TokenContext{Workflow: item})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got != "Draft" {
		t.Fatalf("expected Draft, got %q", got)
	}
}

func TestEngineMissingContextLeavesTokens(t *testing.T) {
	engine := NewDefaultEngine("", nil, nil)
	got, err := engine.Replace(context.Background(), "[node-title] by [user-name]", interfaces.TokenContext{Global: true})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got != "[node-title] by [user-name]" {
		t.Fatalf("expected tokens untouched, got %q", got)
	}
}

func TestEngineReportsProviderErrors(t *testing.T) {
	engine := NewEngine()
	engine.Register("broken", ProviderFunc{
		Lookup: func(context.Context, string, interfaces.TokenContext) (string, bool, error) {
			return "", false, errors.New("lookup failed")
		},
	})

	got, err := engine.Replace(context.Background(), "x [broken-token]", interfaces.TokenContext{})
	if err == nil {
		t.Fatal("expected provider error")
	}
	if got != "x [broken-token]" {
		t.Fatalf("expected original pattern, got %q", got)
	}
}

func TestInfoDeclaresNewStateToken(t *testing.T) {
	infos := Info(NewDefaultEngine("", nil, nil))
	count := 0
	for _, info := range infos {
		if info.Namespace == NamespaceWorkflow && info.Name == "new-state-name" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected new-state-name declared once, got %d", count)
	}
	if infos[0].Namespace != NamespaceDate {
		t.Fatalf("expected namespaces sorted, got %s first", infos[0].Namespace)
	}

	if bare := Info(nil); len(bare) != 1 || bare[0] != newStateNameInfo {
		t.Fatalf("expected only the local token without an engine, got %+v", bare)
	}
}
