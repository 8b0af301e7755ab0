package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-workflowui/internal/identity"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrDefinitionNameRequired indicates the workflow definition lacks a name.
	ErrDefinitionNameRequired = errors.New("workflow: definition name required")
	// ErrDefinitionStatesRequired indicates the workflow definition does not declare any states.
	ErrDefinitionStatesRequired = errors.New("workflow: definition requires at least one state")
	// ErrStateNameRequired indicates a workflow state is missing its name.
	ErrStateNameRequired = errors.New("workflow: state name required")
	// ErrStateIDInvalid indicates a state id that is zero, negative or repeated.
	ErrStateIDInvalid = errors.New("workflow: state id invalid")
	// ErrDuplicateState indicates duplicate workflow state names were declared.
	ErrDuplicateState = errors.New("workflow: duplicate state")
	// ErrDuplicateDefinition indicates multiple definitions share a name.
	ErrDuplicateDefinition = errors.New("workflow: duplicate definition")
	// ErrTransitionStateUnknown indicates a transition references a state that was not declared.
	ErrTransitionStateUnknown = errors.New("workflow: transition references unknown state")
	// ErrDuplicateTransition indicates the same state pair is declared more than once.
	ErrDuplicateTransition = errors.New("workflow: duplicate transition")
	// ErrInitialStateInvalid indicates more than one state was flagged as initial.
	ErrInitialStateInvalid = errors.New("workflow: invalid initial state")
)

// Definition is a compiled workflow ready for registration with an engine.
type Definition struct {
	ID           uuid.UUID
	Name         string
	ContentTypes []string
	States       []interfaces.State
	Initial      interfaces.StateID
	Transitions  []Transition
}

// Transition is a legal move between two states of the same workflow.
type Transition struct {
	From  interfaces.StateID
	To    interfaces.StateID
	Label string
}

// Workflow returns the collaborator-facing view of the definition.
func (d Definition) Workflow() interfaces.Workflow {
	states := make([]interfaces.State, len(d.States))
	copy(states, d.States)
	return interfaces.Workflow{ID: d.ID, Name: d.Name, States: states}
}

// State looks up a state by id.
func (d Definition) State(id interfaces.StateID) (interfaces.State, bool) {
	for _, state := range d.States {
		if state.ID == id {
			return state, true
		}
	}
	return interfaces.State{}, false
}

// Targets lists the states reachable in one step from the supplied state.
func (d Definition) Targets(from interfaces.StateID) []interfaces.StateID {
	var out []interfaces.StateID
	for _, tr := range d.Transitions {
		if tr.From == from {
			out = append(out, tr.To)
		}
	}
	return out
}

// NamedTransitions renders labelled transitions using state names.
func (d Definition) NamedTransitions() []interfaces.NamedTransition {
	var out []interfaces.NamedTransition
	for _, tr := range d.Transitions {
		if strings.TrimSpace(tr.Label) == "" {
			continue
		}
		from, _ := d.State(tr.From)
		to, _ := d.State(tr.To)
		out = append(out, interfaces.NamedTransition{
			WorkflowID: d.ID,
			FromState:  from.Name,
			ToState:    to.Name,
			Label:      tr.Label,
		})
	}
	return out
}

// CompileDefinitionConfigs converts configuration-driven workflow definitions into runtime definitions.
func CompileDefinitionConfigs(configs []runtimeconfig.WorkflowConfig) ([]Definition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	definitions := make([]Definition, 0, len(configs))
	seen := make(map[uuid.UUID]struct{}, len(configs))

	for _, cfg := range configs {
		definition, err := compileDefinitionConfig(cfg)
		if err != nil {
			return nil, err
		}
		if _, exists := seen[definition.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, definition.Name)
		}
		seen[definition.ID] = struct{}{}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

func compileDefinitionConfig(cfg runtimeconfig.WorkflowConfig) (Definition, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return Definition{}, ErrDefinitionNameRequired
	}
	if len(cfg.States) == 0 {
		return Definition{}, fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, name)
	}

	states, byName, initial, err := compileStates(cfg.States)
	if err != nil {
		return Definition{}, err
	}

	transitions, err := compileTransitions(cfg.Transitions, byName)
	if err != nil {
		return Definition{}, err
	}

	types := make([]string, 0, len(cfg.ContentTypes))
	for _, ct := range cfg.ContentTypes {
		if trimmed := strings.ToLower(strings.TrimSpace(ct)); trimmed != "" {
			types = append(types, trimmed)
		}
	}

	return Definition{
		ID:           identity.WorkflowUUID(name),
		Name:         name,
		ContentTypes: types,
		States:       states,
		Initial:      initial,
		Transitions:  transitions,
	}, nil
}

func compileStates(configs []runtimeconfig.WorkflowStateConfig) ([]interfaces.State, map[string]interfaces.StateID, interfaces.StateID, error) {
	ordered := make([]interfaces.State, 0, len(configs))
	byName := make(map[string]interfaces.StateID, len(configs))
	ids := make(map[interfaces.StateID]struct{}, len(configs))
	var initial interfaces.StateID

	for idx, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, nil, 0, fmt.Errorf("%w at index %d", ErrStateNameRequired, idx)
		}
		id := interfaces.StateID(cfg.ID)
		if _, dup := ids[id]; dup || id <= 0 {
			return nil, nil, 0, fmt.Errorf("%w: %d", ErrStateIDInvalid, cfg.ID)
		}
		key := strings.ToLower(name)
		if _, dup := byName[key]; dup {
			return nil, nil, 0, fmt.Errorf("%w: %s", ErrDuplicateState, name)
		}
		if cfg.Initial {
			if initial != 0 {
				return nil, nil, 0, ErrInitialStateInvalid
			}
			initial = id
		}
		ids[id] = struct{}{}
		byName[key] = id
		ordered = append(ordered, interfaces.State{
			ID:     id,
			Name:   name,
			Weight: idx,
			Active: !cfg.Retired,
		})
	}

	if initial == 0 {
		initial = ordered[0].ID
	}

	return ordered, byName, initial, nil
}

func compileTransitions(configs []runtimeconfig.WorkflowTransitionConfig, states map[string]interfaces.StateID) ([]Transition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	result := make([]Transition, 0, len(configs))
	seen := make(map[[2]interfaces.StateID]struct{}, len(configs))

	for _, cfg := range configs {
		from, ok := states[strings.ToLower(strings.TrimSpace(cfg.From))]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, cfg.From)
		}
		to, ok := states[strings.ToLower(strings.TrimSpace(cfg.To))]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, cfg.To)
		}
		key := [2]interfaces.StateID{from, to}
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateTransition, cfg.From, cfg.To)
		}
		seen[key] = struct{}{}

		result = append(result, Transition{
			From:  from,
			To:    to,
			Label: strings.TrimSpace(cfg.Label),
		})
	}

	return result, nil
}
