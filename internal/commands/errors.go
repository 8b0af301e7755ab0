package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by workflowui command handlers.
const (
	CodeValidation      = "WORKFLOWUI_COMMAND_VALIDATION_FAILED"
	CodeCanceled        = "WORKFLOWUI_COMMAND_CANCELED"
	CodeTimeout         = "WORKFLOWUI_COMMAND_TIMEOUT"
	CodeContext         = "WORKFLOWUI_COMMAND_CONTEXT_ERROR"
	CodeFailed          = "WORKFLOWUI_COMMAND_FAILED"
	CodeTransitionRoute = "WORKFLOWUI_TRANSITION_ROUTE_INVALID"
)

// tagged reports errors that need no further wrapping: nil or already
// carrying a go-errors category.
func tagged(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}

func WrapValidationError(err error) error {
	if tagged(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").WithTextCode(CodeValidation)
}

// WrapContextError distinguishes an expired deadline from cancellation.
func WrapContextError(err error) error {
	if tagged(err) {
		return err
	}
	message, code := "command context error", CodeContext
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message, code = "command execution deadline exceeded", CodeTimeout
	case errors.Is(err, context.Canceled):
		message, code = "command execution cancelled", CodeCanceled
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func WrapExecuteError(err error) error {
	if tagged(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").WithTextCode(CodeFailed)
}

// RouteError reports a transition button whose route cannot be committed:
// a missing target state or no field to write it to.
func RouteError(control string, stateID int, field string) error {
	return goerrors.New("transition button route is incomplete", goerrors.CategoryValidation).
		WithTextCode(CodeTransitionRoute).
		WithMetadata(map[string]any{
			"control":  control,
			"state_id": stateID,
			"field":    field,
		})
}

// ErrorCode returns the text code of a go-errors error, or "".
func ErrorCode(err error) string {
	var ge *goerrors.Error
	if errors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}
