// Package identity derives stable UUIDs from natural keys so workflows
// declared in configuration keep their ids across restarts and backends.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-workflowui"

// Key builds a namespaced natural key such as "go-workflowui:workflow:editorial".
// Parts are trimmed and lower cased.
func Key(kind string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, namespace, strings.ToLower(strings.TrimSpace(kind)))
	for _, part := range parts {
		segments = append(segments, strings.ToLower(strings.TrimSpace(part)))
	}
	return strings.Join(segments, ":")
}

// UUID hashes key with go-hashid. A blank key yields uuid.Nil; a hashid
// failure falls back to a name based SHA1 UUID.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

func WorkflowUUID(name string) uuid.UUID {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil
	}
	return UUID(Key("workflow", name))
}
