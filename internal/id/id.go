// Package id generates identifiers for catalog entities.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/listenupapp/bookrec/internal/domain"
)

// bookPrefix is prepended to every generated book ID.
const bookPrefix = "book"

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "book-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewBookID returns a fresh book identifier. IDs are assigned once at import
// and persisted with the row, so they stay stable across restarts.
func NewBookID() (domain.BookID, error) {
	id, err := Generate(bookPrefix)
	if err != nil {
		return "", err
	}
	return domain.BookID(id), nil
}

// NewCatalogVersion returns an identifier for one catalog import run.
func NewCatalogVersion() string {
	return uuid.NewString()
}
