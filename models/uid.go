package models

import (
	"strings"

	"github.com/google/uuid"
)

// Length of the random suffix appended to UID prefixes.
const uidSuffixLength = 24

// GenerateUID returns a prefixed random identifier, e.g.
// "petriz_term_92c35b7a1e0f4d2b8a67c301".
func GenerateUID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + suffix[:uidSuffixLength]
}
