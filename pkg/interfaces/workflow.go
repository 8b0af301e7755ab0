package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// StateID identifies a workflow state. Identifiers are stable within a workflow.
type StateID int

// State documents a single workflow state.
type State struct {
	ID     StateID
	Name   string
	Weight int
	// Active is false for retired states kept only for history.
	Active bool
}

// Workflow describes a named, ordered set of states.
type Workflow struct {
	ID     uuid.UUID
	Name   string
	States []State
}

// StateChoice is a state the current user may move a content item into. Legal choice
// lists always include the item's current state.
type StateChoice struct {
	ID   StateID
	Name string
}

// WorkflowEngine exposes the read-only workflow lookups the form layer depends on.
type WorkflowEngine interface {
	// StateName returns the human readable name for a state identifier.
	StateName(ctx context.Context, id StateID) (string, error)
	// CurrentState returns the state currently assigned to a content item.
	CurrentState(ctx context.Context, contentID uuid.UUID) (StateID, error)
	// WorkflowForContentType reports the workflow bound to a content type, if any.
	WorkflowForContentType(ctx context.Context, contentType string) (uuid.UUID, bool, error)
	// LegalStateChoices lists the states reachable for the item, current state included.
	LegalStateChoices(ctx context.Context, item *ContentItem, workflowID uuid.UUID) ([]StateChoice, error)
}

// NamedTransition carries a per-transition label override keyed by state names.
type NamedTransition struct {
	WorkflowID uuid.UUID
	FromState  string
	ToState    string
	Label      string
}

// NamedTransitions is the optional provider of per-transition label overrides.
type NamedTransitions interface {
	Transitions(ctx context.Context, workflowID uuid.UUID) ([]NamedTransition, error)
}
