package history

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrNilContentID reports a history write without a content id.
var ErrNilContentID = errors.New("history: content id is required")

// Entry is one recorded state change.
type Entry struct {
	ID        uuid.UUID
	ContentID uuid.UUID
	FromState interfaces.StateID
	ToState   interfaces.StateID
	ChangedAt time.Time
}

// Store reads and writes workflow history. It satisfies the workflow
// engine's recorder and the rule engine's history lookups.
type Store interface {
	interfaces.HistoryStore
	RecordStateChange(ctx context.Context, contentID uuid.UUID, from, to interfaces.StateID, at time.Time) error
	Entries(ctx context.Context, contentID uuid.UUID) ([]Entry, error)
}
