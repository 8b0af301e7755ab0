package commit

import (
	"context"
	"errors"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-workflowui/internal/commands"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/pkg/activity"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrInvalidStateValue reports a submitted state that is not a state id.
var ErrInvalidStateValue = errors.New("commit: submitted state is not a state id")

// Assigner persists state assignments.
type Assigner interface {
	Assign(ctx context.Context, contentID uuid.UUID, to interfaces.StateID) error
}

type emitter interface {
	Emit(ctx context.Context, event activity.Event) error
}

// WithActivity emits a transition event for every assignment.
func WithActivity(e *activity.Emitter) Option {
	return func(o *options) {
		if e != nil {
			o.emitter = e
		}
	}
}

type actorKey struct{}

// WithActor stores the acting user id on ctx.
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user id, or uuid.Nil.
func ActorFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	actor, _ := ctx.Value(actorKey{}).(uuid.UUID)
	return actor
}

// SaveHandler is the content save logic for the workflow field: it reads the
// requested state from the submitted values and assigns it.
type SaveHandler struct {
	inner   *commands.Handler[AssignStateCommand]
	emitter emitter
	logger  interfaces.Logger
}

// NewAssignHandler returns the command handler that assigns states through
// assigner. It is also registered with the command dispatcher.
func NewAssignHandler(assigner Assigner, opts ...Option) *commands.Handler[AssignStateCommand] {
	o := buildOptions(opts)
	exec := func(ctx context.Context, msg AssignStateCommand) error {
		return assigner.Assign(ctx, msg.ContentID, msg.StateID)
	}
	return commands.NewHandler[AssignStateCommand](exec,
		commands.WithLogger[AssignStateCommand](o.logger),
		commands.WithOperation[AssignStateCommand]("transition.assign"),
		commands.WithObserver[AssignStateCommand](commands.MetricsObserver(o.metrics)),
	)
}

// NewSaveHandler constructs the save handler.
func NewSaveHandler(assigner Assigner, opts ...Option) *SaveHandler {
	o := buildOptions(opts)
	return &SaveHandler{
		inner:   NewAssignHandler(assigner, opts...),
		emitter: o.emitter,
		logger:  o.logger,
	}
}

// Handle implements form.Handler. Forms without a workflow binding or a
// submitted state are ignored.
func (h *SaveHandler) Handle(ctx context.Context, tree *form.Tree, state *form.State) error {
	if tree == nil || tree.Workflow == nil || state == nil {
		return nil
	}
	raw := strings.TrimSpace(state.Values[tree.Workflow.Field])
	if raw == "" {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return goerrors.Wrap(ErrInvalidStateValue, goerrors.CategoryValidation, "submitted workflow state is invalid").
			WithTextCode("WORKFLOWUI_STATE_INVALID").
			WithMetadata(map[string]any{"field": tree.Workflow.Field, "value": raw})
	}

	msg := AssignStateCommand{
		ContentID: contentID(tree, state),
		StateID:   interfaces.StateID(id),
		ActorID:   ActorFromContext(ctx),
		FormID:    tree.ID,
	}
	if err := h.inner.Execute(ctx, msg); err != nil {
		return err
	}
	h.emit(ctx, msg)
	return nil
}

func (h *SaveHandler) emit(ctx context.Context, msg AssignStateCommand) {
	if h.emitter == nil {
		return
	}
	event := activity.Event{
		Verb:           "transition",
		ActorID:        msg.ActorID.String(),
		ObjectType:     "content",
		ObjectID:       msg.ContentID.String(),
		DefinitionCode: "workflow_state:update",
		Metadata: map[string]any{
			"state_id": int(msg.StateID),
			"form_id":  msg.FormID,
		},
	}
	if err := h.emitter.Emit(ctx, event); err != nil {
		h.logger.Warn("commit.activity.failed", "content_id", msg.ContentID, "error", err)
	}
}

func contentID(tree *form.Tree, state *form.State) uuid.UUID {
	if tree.Content != nil && tree.Content.ID != uuid.Nil {
		return tree.Content.ID
	}
	if raw := state.Values[form.ContentIDKey]; raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	if field := tree.Find(form.ContentIDKey); field != nil {
		if id, err := uuid.Parse(field.Value); err == nil {
			return id
		}
	}
	return uuid.Nil
}
