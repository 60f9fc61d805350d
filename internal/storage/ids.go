package storage

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a 24 character hex identifier, the format recipe ingredient
// references are validated against.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:24]
}

// NewToken returns an opaque session token.
func NewToken() string {
	return uuid.NewString()
}
