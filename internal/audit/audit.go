package audit

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// Event captures an administrative change.
type Event struct {
	EntityType string
	EntityID   string
	Action     string
	OccurredAt time.Time
	Metadata   map[string]any
}

// Recorder persists audit events.
type Recorder interface {
	Record(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
	Clear(ctx context.Context) error
}

// MemoryRecorder accumulates audit events in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

var _ Recorder = (*MemoryRecorder)(nil)

// NewMemoryRecorder constructs an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record stores the supplied event.
func (r *MemoryRecorder) Record(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	event.Metadata = maps.Clone(event.Metadata)
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of recorded entries.
func (r *MemoryRecorder) Events() []Event {
	events, _ := r.List(context.Background())
	return events
}

// Fail makes subsequent Record calls return err.
func (r *MemoryRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// List returns the events recorded so far.
func (r *MemoryRecorder) List(context.Context) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

// Clear removes all recorded events.
func (r *MemoryRecorder) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	return nil
}

// LoggerRecorder writes audit events to a logger and keeps them in memory.
type LoggerRecorder struct {
	*MemoryRecorder
	logger interfaces.Logger
}

// NewLoggerRecorder wraps logger.
func NewLoggerRecorder(logger interfaces.Logger) *LoggerRecorder {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LoggerRecorder{MemoryRecorder: NewMemoryRecorder(), logger: logger}
}

// Record logs and stores the event.
func (r *LoggerRecorder) Record(ctx context.Context, event Event) error {
	r.logger.Info("audit.recorded",
		"entity_type", event.EntityType,
		"entity_id", event.EntityID,
		"action", event.Action,
	)
	return r.MemoryRecorder.Record(ctx, event)
}
