package commit

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	commitTransitionMessageType = "workflowui.transition.commit"
	assignStateMessageType      = "workflowui.transition.assign"
)

// CommitTransitionCommand copies the destination state of a transition
// button into the submitted values.
type CommitTransitionCommand struct {
	ContentID uuid.UUID          `json:"content_id,omitempty"`
	StateID   interfaces.StateID `json:"state_id"`
	Field     string             `json:"field"`
	Values    map[string]string  `json:"-"`
}

// Type implements command.Message.
func (CommitTransitionCommand) Type() string { return commitTransitionMessageType }

// Validate ensures the route is complete.
func (m CommitTransitionCommand) Validate() error {
	errs := validation.Errors{}
	if m.StateID <= 0 {
		errs["state_id"] = validation.NewError("workflowui.transition.commit.state_id_invalid", "state_id must be greater than zero")
	}
	if m.Field == "" {
		errs["field"] = validation.NewError("workflowui.transition.commit.field_required", "field is required")
	}
	if m.Values == nil {
		errs["values"] = validation.NewError("workflowui.transition.commit.values_required", "submitted values are required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AssignStateCommand moves a content item into a state.
type AssignStateCommand struct {
	ContentID uuid.UUID          `json:"content_id"`
	StateID   interfaces.StateID `json:"state_id"`
	ActorID   uuid.UUID          `json:"actor_id,omitempty"`
	FormID    string             `json:"form_id,omitempty"`
}

// Type implements command.Message.
func (AssignStateCommand) Type() string { return assignStateMessageType }

// Validate ensures the message carries the required fields.
func (m AssignStateCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("workflowui.transition.assign.content_id_required", "content_id is required")
	}
	if m.StateID <= 0 {
		errs["state_id"] = validation.NewError("workflowui.transition.assign.state_id_invalid", "state_id must be greater than zero")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
