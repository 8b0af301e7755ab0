package activity

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"time"
)

// Event describes a user visible action, such as a workflow transition request.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// Hooks is an ordered hook list.
type Hooks []Hook

// Config toggles emission and sets the default channel.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter fans events out to hooks.
type Emitter struct {
	hooks Hooks
	cfg   Config
	now   func() time.Time
}

// NewEmitter builds an emitter. Nil hooks are skipped.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	filtered := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			filtered = append(filtered, hook)
		}
	}
	return &Emitter{hooks: filtered, cfg: cfg, now: time.Now}
}

// Enabled reports whether emitting has any effect.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit notifies every hook, joining their errors. Events without a verb are
// dropped.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() || strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.cfg.Channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now().UTC()
	}
	var errs []error
	for _, hook := range e.hooks {
		if err := hook.Notify(ctx, cloneEvent(event)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CaptureHook records events in memory.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

// Notify stores the event.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, event)
	return nil
}

func cloneEvent(event Event) Event {
	event.Metadata = maps.Clone(event.Metadata)
	if event.Recipients != nil {
		event.Recipients = append([]string(nil), event.Recipients...)
	}
	return event
}
