package simple

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-workflowui/internal/workflow"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrUnknownState indicates no registered workflow declares the state id.
	ErrUnknownState = errors.New("workflow: state not registered")
	// ErrUnknownWorkflow indicates the workflow id was never registered.
	ErrUnknownWorkflow = errors.New("workflow: workflow not registered")
	// ErrContentNotTracked indicates the engine holds no state for the content item.
	ErrContentNotTracked = errors.New("workflow: content has no workflow state")
	// ErrInvalidTransition indicates the requested transition is not allowed.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")
	// ErrNilContentID signals input validation failure.
	ErrNilContentID = errors.New("workflow: content id required")
	// ErrStateConflict indicates two workflows declare the same state id.
	ErrStateConflict = errors.New("workflow: state id already registered")
)

// Recorder receives state changes so history stores can answer age queries.
type Recorder interface {
	RecordStateChange(ctx context.Context, contentID uuid.UUID, from, to interfaces.StateID, at time.Time) error
}

// Engine is an in-memory workflow engine. State ids are unique across all
// registered workflows.
type Engine struct {
	mu          sync.RWMutex
	definitions map[uuid.UUID]*workflow.Definition
	byType      map[string]uuid.UUID
	states      map[interfaces.StateID]stateRef
	current     map[uuid.UUID]interfaces.StateID
	recorder    Recorder
	now         func() time.Time
}

type stateRef struct {
	workflowID uuid.UUID
	state      interfaces.State
}

var _ interfaces.WorkflowEngine = (*Engine)(nil)

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the clock used for transition timestamps (primarily for testing).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithRecorder forwards every state change to the supplied recorder.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// New constructs an empty workflow engine.
func New(opts ...Option) *Engine {
	engine := &Engine{
		definitions: make(map[uuid.UUID]*workflow.Definition),
		byType:      make(map[string]uuid.UUID),
		states:      make(map[interfaces.StateID]stateRef),
		current:     make(map[uuid.UUID]interfaces.StateID),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Register installs a compiled workflow definition and binds its content types.
func (e *Engine) Register(definition workflow.Definition) error {
	if definition.ID == uuid.Nil {
		return fmt.Errorf("workflow: definition id required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, state := range definition.States {
		if ref, ok := e.states[state.ID]; ok && ref.workflowID != definition.ID {
			return fmt.Errorf("%w: %d", ErrStateConflict, state.ID)
		}
	}

	def := definition
	e.definitions[def.ID] = &def
	for _, state := range def.States {
		e.states[state.ID] = stateRef{workflowID: def.ID, state: state}
	}
	for _, contentType := range def.ContentTypes {
		e.byType[strings.ToLower(contentType)] = def.ID
	}
	return nil
}

// StateName returns the display name of a registered state.
func (e *Engine) StateName(_ context.Context, id interfaces.StateID) (string, error) {
	e.mu.RLock()
	ref, ok := e.states[id]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownState, id)
	}
	return ref.state.Name, nil
}

// CurrentState returns the state last assigned to the content item.
func (e *Engine) CurrentState(_ context.Context, contentID uuid.UUID) (interfaces.StateID, error) {
	e.mu.RLock()
	state, ok := e.current[contentID]
	e.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrContentNotTracked, contentID)
	}
	return state, nil
}

// WorkflowForContentType resolves the workflow bound to a content type.
func (e *Engine) WorkflowForContentType(_ context.Context, contentType string) (uuid.UUID, bool, error) {
	e.mu.RLock()
	id, ok := e.byType[strings.ToLower(strings.TrimSpace(contentType))]
	e.mu.RUnlock()
	return id, ok, nil
}

// LegalStateChoices lists the current state followed by every active state
// reachable from it, in workflow order.
func (e *Engine) LegalStateChoices(_ context.Context, item *interfaces.ContentItem, workflowID uuid.UUID) ([]interfaces.StateChoice, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	def, ok := e.definitions[workflowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorkflow, workflowID)
	}

	current := e.currentLocked(item, def)
	reachable := map[interfaces.StateID]struct{}{current: {}}
	for _, target := range def.Targets(current) {
		reachable[target] = struct{}{}
	}

	choices := make([]interfaces.StateChoice, 0, len(reachable))
	for _, state := range def.States {
		if _, ok := reachable[state.ID]; !ok {
			continue
		}
		if !state.Active && state.ID != current {
			continue
		}
		choices = append(choices, interfaces.StateChoice{ID: state.ID, Name: state.Name})
	}
	return choices, nil
}

// Assign moves the content item to the supplied state. The first assignment
// may use any state of the workflow; later ones must follow a transition.
func (e *Engine) Assign(ctx context.Context, contentID uuid.UUID, to interfaces.StateID) error {
	if contentID == uuid.Nil {
		return ErrNilContentID
	}

	e.mu.Lock()
	ref, ok := e.states[to]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownState, to)
	}
	from, tracked := e.current[contentID]
	if tracked && from != to {
		def := e.definitions[ref.workflowID]
		if !contains(def.Targets(from), to) {
			e.mu.Unlock()
			return fmt.Errorf("%w: %d -> %d", ErrInvalidTransition, from, to)
		}
	}
	e.current[contentID] = to
	recorder := e.recorder
	at := e.now()
	e.mu.Unlock()

	if recorder == nil || (tracked && from == to) {
		return nil
	}
	return recorder.RecordStateChange(ctx, contentID, from, to, at)
}

func (e *Engine) currentLocked(item *interfaces.ContentItem, def *workflow.Definition) interfaces.StateID {
	if item != nil {
		if item.StateID != 0 {
			if _, ok := def.State(item.StateID); ok {
				return item.StateID
			}
		}
		if state, ok := e.current[item.ID]; ok && !item.IsNew() {
			return state
		}
	}
	return def.Initial
}

func contains(ids []interfaces.StateID, id interfaces.StateID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
