package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the identifier recorded for a post slug. Repeated imports
// of the same slug resolve to the same record.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-press:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// TagUUID derives the identifier recorded for a tag slug.
func TagUUID(slug string) uuid.UUID {
	return UUID("go-press:tag:" + strings.ToLower(strings.TrimSpace(slug)))
}

// RevisionUUID derives the identifier for a post revision snapshot.
func RevisionUUID(postID uuid.UUID, version int) uuid.UUID {
	return UUID("go-press:revision:" + postID.String() + ":" + strconv.Itoa(version))
}
