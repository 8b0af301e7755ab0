package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// Property names exposed to the rule engine.
const (
	PropertyStateAge    = "workflow_state_age"
	PropertyModifiedAge = "content_modified_age"
)

// ErrUnknownProperty reports a property name that is not declared.
var ErrUnknownProperty = errors.New("rules: unknown property")

// Property documents a computed value available to rule conditions.
type Property struct {
	Name        string
	Label       string
	Description string
	Unit        string
}

// Ages computes elapsed times, in whole seconds, for a content item.
type Ages struct {
	History interfaces.HistoryStore
	Clock   func() time.Time
	Logger  interfaces.Logger
}

// NewAges constructs Ages over history using the wall clock.
func NewAges(history interfaces.HistoryStore) *Ages {
	return &Ages{History: history, Clock: time.Now, Logger: logging.NoOp()}
}

// StateAge returns the seconds since the item last changed workflow state,
// or 0 when it never changed.
func (a *Ages) StateAge(ctx context.Context, contentID uuid.UUID) (int64, error) {
	if a == nil || a.History == nil || contentID == uuid.Nil {
		return 0, nil
	}
	last, err := a.History.LastStateChange(ctx, contentID)
	if err != nil {
		return 0, fmt.Errorf("rules: last state change for %s: %w", contentID, err)
	}
	if last == nil {
		return 0, nil
	}
	return a.since(*last), nil
}

// ModifiedAge returns the seconds since the item was last modified, or 0
// when it carries no modification time.
func (a *Ages) ModifiedAge(item *interfaces.ContentItem) int64 {
	if item == nil || item.ChangedAt.IsZero() {
		return 0
	}
	return a.since(item.ChangedAt)
}

// Properties declares the values exposed to the rule engine.
func (a *Ages) Properties() []Property {
	return []Property{
		{
			Name:        PropertyStateAge,
			Label:       "Workflow state age",
			Description: "Seconds since the content last changed workflow state.",
			Unit:        "seconds",
		},
		{
			Name:        PropertyModifiedAge,
			Label:       "Content modified age",
			Description: "Seconds since the content was last modified.",
			Unit:        "seconds",
		},
	}
}

// Value evaluates a declared property for item.
func (a *Ages) Value(ctx context.Context, name string, item *interfaces.ContentItem) (int64, error) {
	switch name {
	case PropertyStateAge:
		if item == nil {
			return 0, nil
		}
		return a.StateAge(ctx, item.ID)
	case PropertyModifiedAge:
		return a.ModifiedAge(item), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
}

func (a *Ages) since(ts time.Time) int64 {
	now := time.Now()
	if a != nil && a.Clock != nil {
		now = a.Clock()
	}
	elapsed := int64(now.Sub(ts) / time.Second)
	if elapsed < 0 {
		if a != nil && a.Logger != nil {
			a.Logger.Debug("rules.age.future_timestamp", "timestamp", ts)
		}
		return 0
	}
	return elapsed
}
