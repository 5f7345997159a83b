package domain

import "time"

// CatalogInfo describes one imported catalog snapshot.
type CatalogInfo struct {
	Version    string    `json:"version"`
	Source     string    `json:"source"`
	BookCount  int       `json:"book_count"`
	GenreCount int       `json:"genre_count"`
	ImportedAt time.Time `json:"imported_at"`
}
