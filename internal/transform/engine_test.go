package transform

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-workflowui/internal/domain"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/internal/labels"
	"github.com/goliatone/go-workflowui/internal/permissions"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/internal/tokens"
	"github.com/goliatone/go-workflowui/internal/workflow"
	"github.com/goliatone/go-workflowui/internal/workflow/simple"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/goliatone/go-workflowui/pkg/testsupport"
	"github.com/google/uuid"
)

var articleID = uuid.MustParse("6f1c2d4e-8a9b-4c3d-9e2f-0a1b2c3d4e5f")

type stubStore struct {
	items map[uuid.UUID]*interfaces.ContentItem
	err   error
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*interfaces.ContentItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return item, nil
}

type stubMetrics struct {
	outcomes []string
	buttons  []int
}

func (s *stubMetrics) FormTransformed(style, outcome string) {
	s.outcomes = append(s.outcomes, style+"/"+outcome)
}

func (s *stubMetrics) ButtonsRendered(count int) {
	s.buttons = append(s.buttons, count)
}

func (s *stubMetrics) TransitionCommitted(string) {}

func (s *stubMetrics) CommandExecuted(string, string, time.Duration) {}

func newEditorial(t *testing.T) (*simple.Engine, workflow.Definition) {
	t.Helper()
	defs, err := workflow.CompileDefinitionConfigs([]runtimeconfig.WorkflowConfig{{
		Name:         "Editorial",
		ContentTypes: []string{"article"},
		States: []runtimeconfig.WorkflowStateConfig{
			{ID: 1, Name: "Draft"},
			{ID: 2, Name: "Review"},
			{ID: 3, Name: "Live"},
		},
		Transitions: []runtimeconfig.WorkflowTransitionConfig{
			{From: "Draft", To: "Review"},
		},
	}})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	engine := simple.New()
	if err := engine.Register(defs[0]); err != nil {
		t.Fatalf("register: %v", err)
	}
	return engine, defs[0]
}

func newTransformer(t *testing.T, opts ...Option) (*Engine, workflow.Definition, *stubStore) {
	t.Helper()
	workflows, def := newEditorial(t)
	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	resolver := labels.NewResolver(tokens.NewResolver(tokens.NewDefaultEngine("Newsroom", workflows, now)))
	store := &stubStore{items: map[uuid.UUID]*interfaces.ContentItem{
		articleID: {ID: articleID, Type: "article", Title: "Hello", StateID: 1},
	}}
	opts = append([]Option{WithContentStore(store)}, opts...)
	return NewEngine(workflows, resolver, opts...), def, store
}

func articleForm(def workflow.Definition) *form.Tree {
	return &form.Tree{
		ID: "article_content_form",
		Controls: []*form.Control{
			{Key: "title", Type: "textfield", Title: form.String("Title"), Value: "Hello"},
			{
				Key:    "workflow",
				Type:   form.TypeFieldset,
				Title:  form.String("Workflow"),
				Weight: 10,
				Children: []*form.Control{
					{
						Key:          "workflow_state",
						Type:         form.TypeRadios,
						Title:        form.String("Change state"),
						DefaultValue: "1",
						Options:      []form.Option{{Value: "1", Label: "Draft"}, {Value: "2", Label: "Review"}},
					},
					{Key: form.CommentKey, Type: form.TypeTextarea, Access: form.Bool(false)},
				},
			},
			{Key: form.ContentIDKey, Type: form.TypeValue, Value: articleID.String()},
			{
				Key:    form.ActionsKey,
				Type:   form.TypeActions,
				Weight: 100,
				Children: []*form.Control{
					{Key: form.SubmitKey, Type: form.TypeSubmit, Value: "Save", Weight: 5},
				},
			},
		},
		Submit:   []string{form.HandlerContentSave},
		Workflow: &form.WorkflowBinding{WorkflowID: def.ID, Group: "workflow", Field: "workflow_state"},
	}
}

func commentForm(def workflow.Definition) *form.Tree {
	return &form.Tree{
		ID: "comment_form",
		Controls: []*form.Control{
			{Key: "comment_body", Type: form.TypeTextarea},
			{
				Key:  "workflow",
				Type: form.TypeFieldset,
				Children: []*form.Control{
					{Key: "workflow_state", Type: form.TypeRadios, DefaultValue: "1"},
					{Key: form.CommentKey, Type: form.TypeTextarea},
				},
			},
			{Key: form.SubmitKey, Type: form.TypeSubmit, Value: "Post", Submit: []string{"comment.form_submit"}},
		},
		Submit:   []string{"comment.form_submit"},
		Workflow: &form.WorkflowBinding{WorkflowID: def.ID, Group: "workflow", Field: "workflow_state"},
		Content:  &interfaces.ContentItem{ID: articleID, Type: "article", Title: "Hello", StateID: 1},
	}
}

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		style domain.UIStyle
		want  Strategy
	}{
		{domain.UIStyleRadios, Strategy{Style: domain.UIStyleRadios, LabelSubmit: true}},
		{domain.UIStyleButtons, Strategy{Style: domain.UIStyleButtons, Buttons: true}},
		{domain.UIStyleDropdown, Strategy{Style: domain.UIStyleDropdown, ConvertToSelect: true, LabelSubmit: true}},
		{domain.UIStyle(42), Strategy{Style: domain.UIStyleRadios, LabelSubmit: true}},
	}
	for _, tc := range cases {
		if got := SelectStrategy(tc.style); got != tc.want {
			t.Fatalf("style %d: expected %+v, got %+v", tc.style, tc.want, got)
		}
	}
}

func TestButtonsRenderOneButtonPerTarget(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)

	if _, err := engine.Transform(context.Background(), tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}

	actions := tree.Find(form.ActionsKey)
	var buttons []*form.Control
	for _, child := range actions.Children {
		if child.Route != nil {
			buttons = append(buttons, child)
		}
	}
	if len(buttons) != 1 {
		t.Fatalf("expected exactly one transition button, got %d", len(buttons))
	}
	if buttons[0].Value != `Move to "Review"` {
		t.Fatalf("unexpected label %q", buttons[0].Value)
	}
	if buttons[0].Route.StateID != 2 || buttons[0].Route.Field != "workflow_state" {
		t.Fatalf("unexpected route %+v", buttons[0].Route)
	}
	if tree.Find("workflow") != nil {
		t.Fatal("expected empty workflow group to be removed")
	}
	if tree.Submit != nil {
		t.Fatalf("expected top-level chain cleared, got %v", tree.Submit)
	}
}

func TestButtonsGoldenContentEditForm(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)

	req := Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons, SaveLabel: "Save [node-title]"}}
	if _, err := engine.Transform(context.Background(), tree, req); err != nil {
		t.Fatalf("transform: %v", err)
	}

	testsupport.AssertJSONGolden(t, filepath.Join("testdata", "article_buttons.golden.json"), tree.Controls)
}

func TestButtonsKeepSchedulingGroup(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)
	tree.Find("workflow").AddChild(&form.Control{Key: form.ScheduledKey, Type: "checkbox"})

	if _, err := engine.Transform(context.Background(), tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	group := tree.Find("workflow")
	if group == nil {
		t.Fatal("expected workflow group kept for scheduling")
	}
	if group.Child("workflow_state") != nil {
		t.Fatal("expected state control removed")
	}
}

func TestButtonsUseNamedTransitionOverride(t *testing.T) {
	workflows, def := newEditorial(t)
	provider := overrides{{WorkflowID: def.ID, FromState: "Draft", ToState: "Review", Label: "Send to [workflow-new-state-name] desk"}}
	engine := NewEngine(workflows, labels.NewResolver(nil, labels.WithNamedTransitions(provider)))
	tree := articleForm(def)
	tree.Content = &interfaces.ContentItem{ID: articleID, Type: "article", StateID: 1}

	req := Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons, ButtonLabel: "Go [workflow-new-state-name]"}}
	if _, err := engine.Transform(context.Background(), tree, req); err != nil {
		t.Fatalf("transform: %v", err)
	}
	button := tree.Find("actions/submit_to_2")
	if button == nil || button.Value != "Send to Review desk" {
		t.Fatalf("expected override label, got %+v", button)
	}
}

type overrides []interfaces.NamedTransition

func (o overrides) Transitions(context.Context, uuid.UUID) ([]interfaces.NamedTransition, error) {
	return o, nil
}

func TestButtonsRepurposeCommentSave(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := commentForm(def)

	req := Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons, SaveLabel: "Comment only"}}
	if _, err := engine.Transform(context.Background(), tree, req); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if tree.Find(form.SubmitKey) != nil {
		t.Fatal("expected orphaned top-level save removed")
	}
	if tree.Submit != nil {
		t.Fatalf("expected top-level chain cleared, got %v", tree.Submit)
	}
	save := tree.Find("actions/save")
	if save == nil {
		t.Fatal("expected save cloned into actions")
	}
	if save.Weight != -1 || save.Value != "Comment only" {
		t.Fatalf("unexpected save control %+v", save)
	}
	if !reflect.DeepEqual(save.Submit, []string{"comment.form_submit"}) {
		t.Fatalf("unexpected save chain %v", save.Submit)
	}
	button := tree.Find("actions/submit_to_2")
	if button == nil {
		t.Fatal("expected transition button")
	}
	if button.Weight != 1 {
		t.Fatalf("expected button after save, got weight %d", button.Weight)
	}
	want := []string{form.HandlerCommitTransition, "comment.form_submit"}
	if !reflect.DeepEqual(button.Submit, want) {
		t.Fatalf("expected chain %v, got %v", want, button.Submit)
	}
	if tree.Find("workflow") == nil {
		t.Fatal("expected group kept for visible comment")
	}
}

func TestButtonsReplaceGroupedCommentSave(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := commentForm(def)
	post := tree.Find(form.SubmitKey)
	post.Weight = 5
	tree.Remove(form.SubmitKey)
	tree.Add("", &form.Control{Key: form.ActionsKey, Type: form.TypeActions, Children: []*form.Control{post}})

	if _, err := engine.Transform(context.Background(), tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}

	var saves []string
	for _, child := range tree.Find(form.ActionsKey).Children {
		if child.Route == nil {
			saves = append(saves, child.Key)
		}
	}
	if !reflect.DeepEqual(saves, []string{form.SaveKey}) {
		t.Fatalf("expected a single save control, got %v", saves)
	}
	save := tree.Find("actions/save")
	if save.Weight != 4 || save.Value != "Post" {
		t.Fatalf("unexpected save control %+v", save)
	}
	if !reflect.DeepEqual(save.Submit, []string{"comment.form_submit"}) {
		t.Fatalf("unexpected save chain %v", save.Submit)
	}
	if button := tree.Find("actions/submit_to_2"); button == nil || button.Weight != 6 {
		t.Fatalf("expected transition button after save, got %+v", button)
	}
}

func TestButtonsDropGroupWithOnlyUnrelatedVisibleChildren(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)
	tree.Find("workflow").AddChild(&form.Control{Key: "workflow_help", Type: form.TypeItem, Value: "Pick a state"})

	if _, err := engine.Transform(context.Background(), tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if tree.Find("workflow") != nil {
		t.Fatal("expected group without scheduling or visible comment to be removed")
	}
}

func TestWorkflowTabKeepsSaveLabelUntouched(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := &form.Tree{
		ID: form.WorkflowTabFormID,
		Controls: []*form.Control{
			{Key: "workflow_state", Type: form.TypeRadios, DefaultValue: "1"},
			{Key: form.SubmitKey, Type: form.TypeSubmit, Value: "Update"},
		},
		Workflow: &form.WorkflowBinding{WorkflowID: def.ID, Field: "workflow_state"},
		Content:  &interfaces.ContentItem{ID: articleID, Type: "article", StateID: 1},
	}

	req := Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons, SaveLabel: "Keep"}}
	if _, err := engine.Transform(context.Background(), tree, req); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if tree.Find("workflow_state") != nil || tree.Find(form.SubmitKey) != nil {
		t.Fatal("expected state control and save removed")
	}
	button := tree.Find("actions/submit_to_2")
	if button == nil {
		t.Fatal("expected transition button")
	}
	if len(button.Submit) != 0 {
		t.Fatalf("expected no chain without declared handlers, got %v", button.Submit)
	}
}

func TestDropdownWithoutTitle(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)
	req := Request{Settings: settings.Settings{UIStyle: domain.UIStyleDropdown, FormTitle: settings.NoTitle}}

	for i := 0; i < 2; i++ {
		if _, err := engine.Transform(context.Background(), tree, req); err != nil {
			t.Fatalf("transform %d: %v", i, err)
		}
		control := tree.Find("workflow/workflow_state")
		if control == nil || control.Type != form.TypeSelect {
			t.Fatalf("pass %d: expected select control, got %+v", i, control)
		}
		if title := tree.Find("workflow").Title; title != nil {
			t.Fatalf("pass %d: expected title omitted, got %q", i, *title)
		}
	}

	raw, err := json.Marshal(tree.Find("workflow"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["title"]; ok {
		t.Fatalf("expected title key absent, got %s", raw)
	}
}

func TestRadiosCustomTitleAndSubmitLabel(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)
	req := Request{Settings: settings.Settings{
		UIStyle:     domain.UIStyleRadios,
		FormTitle:   "Publishing",
		ButtonLabel: "Update [node-title] [workflow-new-state-name]",
	}}
	req.Item = &interfaces.ContentItem{ID: articleID, Type: "article", Title: "Hello", StateID: 1}

	if _, err := engine.Transform(context.Background(), tree, req); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := *tree.Find("workflow").Title; got != "Publishing" {
		t.Fatalf("expected custom title, got %q", got)
	}
	if tree.Find("workflow/workflow_state").Type != form.TypeRadios {
		t.Fatal("expected radios untouched")
	}
	if got := tree.Find("actions/submit").Value; got != "Update Hello [workflow-new-state-name]" {
		t.Fatalf("unexpected save label %q", got)
	}
}

func TestSingleChoiceRendersPassiveDisplay(t *testing.T) {
	engine, def, _ := newTransformer(t)
	tree := articleForm(def)
	tree.Content = &interfaces.ContentItem{ID: articleID, Type: "article", StateID: 3}
	tree.Controls = tree.Controls[:2]

	ctx := permissions.WithPermissions(context.Background(), permissions.WorkflowStateView)
	if _, err := engine.Transform(ctx, tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	control := tree.Find("workflow/workflow_state")
	if control == nil || control.Type != form.TypeItem {
		t.Fatalf("expected passive item, got %+v", control)
	}
	if control.Value != "Current state: Live" {
		t.Fatalf("unexpected display %q", control.Value)
	}
	if control.Options != nil {
		t.Fatal("expected options dropped")
	}
}

func TestSingleChoiceWithoutPermissionRemovesGroup(t *testing.T) {
	recorder := &stubMetrics{}
	engine, def, _ := newTransformer(t, WithMetrics(recorder))
	tree := articleForm(def)
	tree.Content = &interfaces.ContentItem{ID: articleID, Type: "article", StateID: 3}
	tree.Controls = tree.Controls[:2]

	ctx := permissions.WithPermissions(context.Background())
	if _, err := engine.Transform(ctx, tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleRadios}}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if tree.Find("workflow") != nil {
		t.Fatal("expected workflow group removed")
	}
	if !reflect.DeepEqual(recorder.outcomes, []string{"radios/" + OutcomeHidden}) {
		t.Fatalf("unexpected outcomes %v", recorder.outcomes)
	}
}

func TestFormWithoutWorkflowIsUntouched(t *testing.T) {
	engine, _, _ := newTransformer(t)
	tree := &form.Tree{
		ID:       "user_form",
		Controls: []*form.Control{{Key: form.SubmitKey, Type: form.TypeSubmit, Value: "Save"}},
		Submit:   []string{"user.save"},
	}
	before := tree.Clone()

	if _, err := engine.Transform(context.Background(), tree, Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !reflect.DeepEqual(before, tree) {
		t.Fatalf("expected untouched tree, got %+v", tree)
	}
}

func TestContentLoadFailurePropagates(t *testing.T) {
	engine, def, store := newTransformer(t)
	store.err = errors.New("db down")

	_, err := engine.Transform(context.Background(), articleForm(def), Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}})
	if err == nil || !errors.Is(err, store.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestButtonsRecordMetrics(t *testing.T) {
	recorder := &stubMetrics{}
	engine, def, _ := newTransformer(t, WithMetrics(recorder))

	if _, err := engine.Transform(context.Background(), articleForm(def), Request{Settings: settings.Settings{UIStyle: domain.UIStyleButtons}}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !reflect.DeepEqual(recorder.buttons, []int{1}) {
		t.Fatalf("unexpected button counts %v", recorder.buttons)
	}
	if !reflect.DeepEqual(recorder.outcomes, []string{"buttons/" + OutcomeButtons}) {
		t.Fatalf("unexpected outcomes %v", recorder.outcomes)
	}
}
