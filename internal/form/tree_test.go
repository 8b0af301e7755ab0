package form

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func sampleTree() *Tree {
	return &Tree{
		ID: "article_content_form",
		Controls: []*Control{
			{Key: "title", Type: "textfield"},
			{
				Key:  "workflow",
				Type: TypeFieldset,
				Children: []*Control{
					{Key: "workflow_state", Type: TypeRadios, Options: []Option{{Value: "1", Label: "Draft"}}},
					{Key: CommentKey, Type: TypeTextarea, Access: Bool(false)},
				},
			},
			{
				Key:  ActionsKey,
				Type: TypeActions,
				Children: []*Control{
					{Key: SubmitKey, Type: TypeSubmit, Value: "Save", Weight: 5, Submit: []string{HandlerContentSave}},
				},
			},
		},
		Workflow: &WorkflowBinding{Group: "workflow", Field: "workflow_state"},
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		"workflow_tab_form":    KindWorkflowTab,
		"article_content_form": KindContentEdit,
		"comment_form":         KindComment,
		"comment_node_article": KindComment,
		"user_login_form":      KindOther,
		"":                     KindOther,
	}
	for id, want := range cases {
		if got := Classify(id); got != want {
			t.Fatalf("Classify(%q): expected %s, got %s", id, want, got)
		}
	}
}

func TestTreeFindAddRemove(t *testing.T) {
	tree := sampleTree()

	if got := tree.Find(tree.Workflow.Path()); got == nil || got.Type != TypeRadios {
		t.Fatalf("expected workflow radios at %s, got %+v", tree.Workflow.Path(), got)
	}
	if tree.Find("workflow/missing/deeper") != nil {
		t.Fatal("expected nil for missing path")
	}

	if !tree.Add(ActionsKey, &Control{Key: "submit_to_2", Type: TypeSubmit}) {
		t.Fatal("expected Add to succeed")
	}
	if tree.Find("actions/submit_to_2") == nil {
		t.Fatal("expected added control")
	}
	if tree.Add("missing", &Control{Key: "x"}) {
		t.Fatal("expected Add under missing parent to fail")
	}

	if !tree.Remove("workflow/workflow_state") {
		t.Fatal("expected nested Remove to succeed")
	}
	if !tree.Remove("title") {
		t.Fatal("expected top-level Remove to succeed")
	}
	if tree.Remove("title") {
		t.Fatal("expected second Remove to report false")
	}
	if len(tree.Controls) != 2 {
		t.Fatalf("expected two controls left, got %d", len(tree.Controls))
	}
}

func TestControlVisibility(t *testing.T) {
	tree := sampleTree()
	if tree.Find("workflow/" + CommentKey).Visible() {
		t.Fatal("expected comment to be hidden")
	}
	if !tree.Find("title").Visible() {
		t.Fatal("expected controls without access flag to be visible")
	}
	var missing *Control
	if missing.Visible() {
		t.Fatal("expected nil control to be invisible")
	}
}

func TestTreeCloneIsDeep(t *testing.T) {
	tree := sampleTree()
	tree.Find("actions/submit").Title = String("Save")
	clone := tree.Clone()

	if !reflect.DeepEqual(tree, clone) {
		t.Fatal("expected clone to equal original")
	}

	clone.Find("actions/submit").Submit[0] = "changed"
	*clone.Find("actions/submit").Title = "changed"
	clone.Workflow.Field = "other"

	if tree.Find("actions/submit").Submit[0] != HandlerContentSave {
		t.Fatal("expected submit chain to be copied")
	}
	if *tree.Find("actions/submit").Title != "Save" {
		t.Fatal("expected title to be copied")
	}
	if tree.Workflow.Field != "workflow_state" {
		t.Fatal("expected binding to be copied")
	}
}

func TestStateChain(t *testing.T) {
	tree := &Tree{Submit: []string{"top"}}
	button := &Control{Key: "submit_to_2", Submit: []string{HandlerCommitTransition, HandlerContentSave}}

	if got := NewState(button).Chain(tree); !reflect.DeepEqual(got, button.Submit) {
		t.Fatalf("expected button chain, got %v", got)
	}
	if got := NewState(&Control{Key: "plain"}).Chain(tree); !reflect.DeepEqual(got, []string{"top"}) {
		t.Fatalf("expected tree chain, got %v", got)
	}
}

func TestHandlersRun(t *testing.T) {
	var calls []string
	handlers := NewHandlers()
	handlers.Register("first", HandlerFunc(func(_ context.Context, _ *Tree, state *State) error {
		calls = append(calls, "first")
		state.Set("workflow_state", "2")
		return nil
	}))
	handlers.Register("second", HandlerFunc(func(_ context.Context, _ *Tree, state *State) error {
		calls = append(calls, "second:"+state.Values["workflow_state"])
		return nil
	}))

	state := &State{}
	if err := handlers.Run(context.Background(), []string{"first", "second"}, nil, state); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"first", "second:2"}) {
		t.Fatalf("unexpected calls %v", calls)
	}

	if err := handlers.Run(context.Background(), []string{"missing"}, nil, state); !errors.Is(err, ErrUnknownHandler) {
		t.Fatalf("expected ErrUnknownHandler, got %v", err)
	}

	boom := errors.New("boom")
	handlers.Register("failing", HandlerFunc(func(context.Context, *Tree, *State) error { return boom }))
	if err := handlers.Run(context.Background(), []string{"failing", "first"}, nil, state); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
	if !handlers.Has("failing") || handlers.Has("nope") {
		t.Fatal("unexpected Has results")
	}
}
