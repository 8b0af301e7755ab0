package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-workflowui"
	"github.com/goliatone/go-workflowui/commands"
	"github.com/goliatone/go-workflowui/internal/content"
	"github.com/goliatone/go-workflowui/internal/di"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/internal/settings"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store := content.NewMemoryStore()
	article := &interfaces.ContentItem{
		ID:        uuid.New(),
		Type:      "article",
		Title:     "City council approves budget",
		Slug:      "city-council-approves-budget",
		StateID:   1,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ChangedAt: time.Now().Add(-15 * time.Minute),
	}
	store.Put(article)

	module, err := workflowui.New(cfg, di.WithContentStore(store))
	if err != nil {
		log.Fatalf("initialise module: %v", err)
	}
	defer module.Close()

	if err := module.Start(ctx); err != nil {
		log.Fatalf("start module: %v", err)
	}

	registered, err := commands.RegisterContainerCommands(module.Container(), commands.RegistrationOptions{})
	if err != nil {
		log.Fatalf("register commands: %v", err)
	}
	fmt.Printf("registered %d command handlers\n", len(registered.Handlers))

	if _, err := module.SettingsAdmin().Apply(ctx, settings.Settings{
		UIStyle:     workflowui.UIStyleButtons,
		FormTitle:   "Publishing",
		ButtonLabel: "Send [node-title] to [workflow-new-state-name]",
	}); err != nil {
		log.Fatalf("apply settings: %v", err)
	}

	tree, err := module.FormAlter(ctx, articleForm(article.ID), workflowui.FormContext{
		User: &interfaces.User{ID: uuid.New(), Name: "Editor"},
	})
	if err != nil {
		log.Fatalf("form alter: %v", err)
	}
	printJSON("decorated form", tree)

	var button *form.Control
	if actions := tree.Find(form.ActionsKey); actions != nil {
		for _, child := range actions.Children {
			if child.Route != nil {
				button = child
				break
			}
		}
	}
	if button == nil {
		log.Fatal("no transition button rendered")
	}

	state, err := module.Submit(ctx, tree, form.NewState(button))
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	fmt.Printf("submitted %q, requested state %s\n", button.Value, state.Values["workflow_state"])

	stateAge, err := module.StateAge(ctx, article.ID)
	if err != nil {
		log.Fatalf("state age: %v", err)
	}
	fmt.Printf("%s=%d %s=%d\n",
		workflowui.PropertyStateAge, stateAge,
		workflowui.PropertyModifiedAge, module.ModifiedAge(article),
	)

	for _, info := range module.TokenInfo() {
		fmt.Printf("[%s-%s] %s\n", info.Namespace, info.Name, info.Description)
	}
}

func loadConfig() (workflowui.Config, error) {
	if len(os.Args) > 1 {
		return workflowui.LoadConfig(os.Args[1])
	}
	cfg := workflowui.DefaultConfig()
	cfg.Site.Name = "Daily Gazette"
	cfg.Features.Tokens = true
	cfg.Features.NamedTransitions = true
	cfg.Workflows = []workflowui.WorkflowConfig{{
		Name:         "Editorial",
		ContentTypes: []string{"article"},
		States: []workflowui.WorkflowStateConfig{
			{ID: 1, Name: "Draft", Initial: true},
			{ID: 2, Name: "Review"},
			{ID: 3, Name: "Live"},
		},
		Transitions: []workflowui.WorkflowTransitionConfig{
			{From: "Draft", To: "Review"},
			{From: "Review", To: "Live", Label: "Publish [node-title]"},
			{From: "Review", To: "Draft", Label: "Send back"},
		},
	}}
	return cfg, nil
}

func articleForm(id uuid.UUID) *form.Tree {
	return &form.Tree{
		ID: "article_content_form",
		Controls: []*form.Control{
			{Key: "title", Type: "textfield", Title: form.String("Title")},
			{
				Key:    "workflow",
				Type:   form.TypeFieldset,
				Title:  form.String("Workflow"),
				Weight: 10,
				Children: []*form.Control{
					{Key: "workflow_state", Type: form.TypeRadios, DefaultValue: "1"},
					{Key: form.CommentKey, Type: form.TypeTextarea, Access: form.Bool(false)},
				},
			},
			{Key: form.ContentIDKey, Type: form.TypeValue, Value: id.String()},
			{
				Key:    form.ActionsKey,
				Type:   form.TypeActions,
				Weight: 100,
				Children: []*form.Control{
					{Key: form.SubmitKey, Type: form.TypeSubmit, Value: "Save", Weight: 5},
				},
			},
		},
		Submit:   []string{workflowui.HandlerContentSave},
		Workflow: &form.WorkflowBinding{Group: "workflow", Field: "workflow_state"},
	}
}

func printJSON(label string, value any) {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Printf("%s: %v", label, err)
		return
	}
	fmt.Printf("%s:\n%s\n", label, raw)
}
