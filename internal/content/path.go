package content

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrNoContentPath reports a request path that does not address content.
var ErrNoContentPath = errors.New("content: path does not identify a content item")

var pathPrefixes = map[string]struct{}{
	"content": {},
	"node":    {},
}

// FromPath loads the item addressed by a request path such as
// /content/<id>, /content/<id>/edit or /node/<slug>.
func FromPath(ctx context.Context, store interfaces.ContentStore, path string) (*interfaces.ContentItem, error) {
	if store == nil {
		return nil, ErrNoContentPath
	}
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	for i := 0; i+1 < len(segments); i++ {
		if _, ok := pathPrefixes[strings.ToLower(segments[i])]; !ok {
			continue
		}
		key := segments[i+1]
		if id, err := uuid.Parse(key); err == nil {
			return store.GetByID(ctx, id)
		}
		if slugs, ok := store.(Store); ok {
			return slugs.GetBySlug(ctx, key)
		}
		return nil, ErrNoContentPath
	}
	return nil, ErrNoContentPath
}
