package transitions

import (
	"context"
	"sync"

	"github.com/goliatone/go-workflowui/internal/workflow"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryProvider serves labelled transitions from memory.
type MemoryProvider struct {
	mu          sync.RWMutex
	transitions map[uuid.UUID][]interfaces.NamedTransition
}

var _ interfaces.NamedTransitions = (*MemoryProvider)(nil)

// NewMemoryProvider constructs an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{transitions: make(map[uuid.UUID][]interfaces.NamedTransition)}
}

// FromDefinitions seeds a provider with every labelled transition of the definitions.
func FromDefinitions(defs []workflow.Definition) *MemoryProvider {
	provider := NewMemoryProvider()
	for _, def := range defs {
		provider.Set(def.ID, def.NamedTransitions())
	}
	return provider
}

// Set replaces the labelled transitions of a workflow.
func (p *MemoryProvider) Set(workflowID uuid.UUID, items []interfaces.NamedTransition) {
	cloned := make([]interfaces.NamedTransition, len(items))
	copy(cloned, items)
	for i := range cloned {
		cloned[i].WorkflowID = workflowID
	}

	p.mu.Lock()
	p.transitions[workflowID] = cloned
	p.mu.Unlock()
}

// Transitions lists the labelled transitions of a workflow. Unknown workflows yield nil.
func (p *MemoryProvider) Transitions(_ context.Context, workflowID uuid.UUID) ([]interfaces.NamedTransition, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	items := p.transitions[workflowID]
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]interfaces.NamedTransition, len(items))
	copy(out, items)
	return out, nil
}
