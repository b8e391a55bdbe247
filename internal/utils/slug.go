package utils

import (
	"strings"

	"github.com/google/uuid"
)

const slugLen = 8

// NewSlug returns a short shareable wheel identifier. It folds a fresh UUID
// down to its first 8 hex characters, which keeps links typeable while the
// unique index on the slug column catches the rare collision.
func NewSlug() string {
	id := uuid.NewString()
	return strings.ReplaceAll(id, "-", "")[:slugLen]
}
