package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-workflowui/internal/metrics"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// Outcome classifies how a command execution ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Execution is reported to observers once a command returns.
type Execution struct {
	Command   string
	Operation string
	Outcome   Outcome
	Duration  time.Duration
	Err       error
}

// Observer is notified after every command execution, successful or not.
type Observer func(ctx context.Context, exec Execution)

// MetricsObserver feeds executions into the workflowui Prometheus collectors.
func MetricsObserver(rec metrics.Recorder) Observer {
	if rec == nil {
		rec = metrics.NoOp()
	}
	return func(_ context.Context, exec Execution) {
		rec.CommandExecuted(exec.Command, string(exec.Outcome), exec.Duration)
	}
}

func outcomeOf(ctx context.Context, err error) Outcome {
	switch {
	case err == nil && ctx.Err() == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case err == nil:
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}

func logExecution(logger interfaces.Logger, exec Execution) {
	elapsed := exec.Duration.Milliseconds()
	switch exec.Outcome {
	case OutcomeOK:
		logger.Info("command.execute.success", "duration_ms", elapsed)
	case OutcomeCanceled:
		logger.Warn("command.execute.canceled", "duration_ms", elapsed, "error", exec.Err)
	default:
		logger.Error("command.execute.failed", "duration_ms", elapsed, "error", exec.Err)
	}
}
