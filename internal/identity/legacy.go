package identity

import (
	"regexp"

	"github.com/google/uuid"
)

// Migration shim for pre-durable-id identities. Legacy ids carried a numeric
// portion ("employee-42", bare "42"); the shim derives a deterministic key
// from that portion and matches it against the legacy_key index populated by
// the JSON-to-database migration.
//
// Deprecated: remove once every identity has been migrated to a durable id.
// New code must not depend on legacy keys.

var legacyNamespace = uuid.MustParse("8f0c2f05-2c5e-4a8b-9c41-5d1e9a7b6f30")

var legacyNumericPattern = regexp.MustCompile(`\d+`)

// LegacyKeyFor derives the deterministic lookup key for a legacy id. The
// second return is false when the id carries no numeric portion.
func LegacyKeyFor(legacyID string) (string, bool) {
	numeric := legacyNumericPattern.FindString(legacyID)
	if numeric == "" {
		return "", false
	}
	return uuid.NewSHA1(legacyNamespace, []byte("employee-"+numeric)).String(), true
}
