package commit

import (
	"context"
	"strconv"

	"github.com/goliatone/go-workflowui/internal/commands"
	"github.com/goliatone/go-workflowui/internal/form"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/metrics"
	"github.com/goliatone/go-workflowui/pkg/activity"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// Outcomes reported to the metrics recorder.
const (
	OutcomeRouted  = "routed"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Adapter is the first handler of a transition button's chain. It writes the
// button's destination state where the save logic reads the requested state.
type Adapter struct {
	inner   *commands.Handler[CommitTransitionCommand]
	metrics metrics.Recorder
	emitter emitter
	logger  interfaces.Logger
}

// Option configures the adapter and the save handler.
type Option func(*options)

type options struct {
	metrics metrics.Recorder
	logger  interfaces.Logger
	emitter emitter
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(o *options) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{metrics: metrics.NoOp(), logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewAdapter constructs the commit adapter.
func NewAdapter(opts ...Option) *Adapter {
	o := buildOptions(opts)
	exec := func(_ context.Context, msg CommitTransitionCommand) error {
		msg.Values[msg.Field] = strconv.Itoa(int(msg.StateID))
		return nil
	}
	return &Adapter{
		inner: commands.NewHandler[CommitTransitionCommand](exec,
			commands.WithLogger[CommitTransitionCommand](o.logger),
			commands.WithOperation[CommitTransitionCommand]("transition.commit"),
		),
		metrics: o.metrics,
		emitter: o.emitter,
		logger:  o.logger,
	}
}

// Handle implements form.Handler. Submissions not triggered by a transition
// button pass through untouched.
func (a *Adapter) Handle(ctx context.Context, tree *form.Tree, state *form.State) error {
	if state == nil || state.Triggering == nil || state.Triggering.Route == nil {
		a.metrics.TransitionCommitted(OutcomeSkipped)
		return nil
	}
	route := state.Triggering.Route
	field := route.Field
	if field == "" && tree != nil && tree.Workflow != nil {
		field = tree.Workflow.Field
	}
	if state.Values == nil {
		state.Values = map[string]string{}
	}

	if route.StateID <= 0 || field == "" {
		a.metrics.TransitionCommitted(OutcomeFailed)
		return commands.RouteError(state.Triggering.Key, int(route.StateID), field)
	}

	msg := CommitTransitionCommand{
		ContentID: contentID(tree, state),
		StateID:   route.StateID,
		Field:     field,
		Values:    state.Values,
	}
	if err := a.inner.Execute(ctx, msg); err != nil {
		a.metrics.TransitionCommitted(OutcomeFailed)
		return err
	}
	a.metrics.TransitionCommitted(OutcomeRouted)
	a.report(ctx, tree, msg)
	return nil
}

func (a *Adapter) report(ctx context.Context, tree *form.Tree, msg CommitTransitionCommand) {
	if a.emitter == nil || msg.ContentID == uuid.Nil {
		return
	}
	formID := ""
	if tree != nil {
		formID = tree.ID
	}
	event := activity.Event{
		Verb:           "transition_requested",
		ActorID:        ActorFromContext(ctx).String(),
		ObjectType:     "content",
		ObjectID:       msg.ContentID.String(),
		DefinitionCode: "workflow_state:request",
		Metadata: map[string]any{
			"state_id": int(msg.StateID),
			"field":    msg.Field,
			"form_id":  formID,
		},
	}
	if err := a.emitter.Emit(ctx, event); err != nil {
		a.logger.Warn("commit.activity.failed", "content_id", msg.ContentID, "error", err)
	}
}
