package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single command execution.
const DefaultCommandTimeout = 30 * time.Second

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler adapts a command.CommandFunc to go-command's Commander. It
// validates the message, bounds execution with a timeout, tags errors with
// go-errors categories and reports every run to its observers.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	observers []Observer
	timeout   time.Duration
	operation string
}

func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: nil command func")
	}
	h := &Handler[T]{exec: fn, logger: logging.NoOp(), timeout: DefaultCommandTimeout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Observe appends observers after construction. It returns h for chaining.
func (h *Handler[T]) Observe(observers ...Observer) *Handler[T] {
	for _, obs := range observers {
		if obs != nil {
			h.observers = append(h.observers, obs)
		}
	}
	return h
}

func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return WrapValidationError(err)
	}

	ctx, cancel := WithCommandTimeout(EnsureContext(ctx), h.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return WrapContextError(err)
	}

	name := command.GetMessageType(msg)
	logger := logging.WithFields(h.logger, map[string]any{"command": name, "operation": nonEmpty(h.operation)})
	logger.Debug("command.execute.start")

	started := time.Now()
	err := h.exec(ctx, msg)
	exec := Execution{
		Command:   name,
		Operation: h.operation,
		Outcome:   outcomeOf(ctx, err),
		Duration:  time.Since(started),
	}
	switch {
	case exec.Outcome == OutcomeCanceled && err != nil:
		exec.Err = WrapContextError(err)
	case exec.Outcome == OutcomeCanceled:
		exec.Err = WrapContextError(ctx.Err())
	case err != nil:
		exec.Err = WrapExecuteError(err)
	}

	logExecution(logger, exec)
	for _, obs := range h.observers {
		obs(ctx, exec)
	}
	return exec.Err
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// WithTimeout overrides DefaultCommandTimeout. Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation names the operation logged with every entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

func WithObserver[T command.Message](obs Observer) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.Observe(obs)
	}
}

// EnsureContext substitutes context.Background for a nil ctx.
func EnsureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// WithCommandTimeout derives a deadline from ctx when timeout is positive.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// EnsureLogger substitutes the no-op logger for nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger != nil {
		return logger
	}
	return logging.NoOp()
}
