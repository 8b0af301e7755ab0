package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Handler chain names the transform attaches to buttons.
const (
	HandlerCommitTransition = "workflowui.commit_transition"
	HandlerContentSave      = "content.form_submit"
)

// ErrUnknownHandler reports a chain entry with no registered handler.
var ErrUnknownHandler = errors.New("form: handler not registered")

// State is the submission state of a form.
type State struct {
	Values map[string]string
	// Triggering is the control the user activated.
	Triggering *Control
}

// NewState builds a submission state triggered by control.
func NewState(triggering *Control) *State {
	return &State{Values: map[string]string{}, Triggering: triggering}
}

// Set stores a submitted value.
func (s *State) Set(key, value string) {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[key] = value
}

// Chain returns the handler chain for the submission: the triggering
// control's own chain, else the tree's top-level chain.
func (s *State) Chain(tree *Tree) []string {
	if s != nil && s.Triggering != nil && len(s.Triggering.Submit) > 0 {
		return slices.Clone(s.Triggering.Submit)
	}
	if tree == nil {
		return nil
	}
	return slices.Clone(tree.Submit)
}

// Handler processes a submitted form.
type Handler interface {
	Handle(ctx context.Context, tree *Tree, state *State) error
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(ctx context.Context, tree *Tree, state *State) error

func (fn HandlerFunc) Handle(ctx context.Context, tree *Tree, state *State) error {
	return fn(ctx, tree, state)
}

// Handlers is a registry of named submit handlers.
type Handlers struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewHandlers constructs an empty registry.
func NewHandlers() *Handlers {
	return &Handlers{handlers: make(map[string]Handler)}
}

// Register binds a handler to a chain name.
func (h *Handlers) Register(name string, handler Handler) {
	name = strings.TrimSpace(name)
	if name == "" || handler == nil {
		return
	}
	h.mu.Lock()
	h.handlers[name] = handler
	h.mu.Unlock()
}

// Has reports whether name is registered.
func (h *Handlers) Has(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.handlers[name]
	return ok
}

// Run executes the chain in order, stopping at the first error.
func (h *Handlers) Run(ctx context.Context, chain []string, tree *Tree, state *State) error {
	for _, name := range chain {
		h.mu.RLock()
		handler, ok := h.handlers[name]
		h.mu.RUnlock()
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHandler, name)
		}
		if err := handler.Handle(ctx, tree, state); err != nil {
			return fmt.Errorf("form: handler %s: %w", name, err)
		}
	}
	return nil
}
