package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord mirrors the go-users activity record so workflow transition
// requests land in the same feed as other user actions.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink captures activity events.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
