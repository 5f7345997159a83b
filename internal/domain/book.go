// Package domain contains the core entities of the book catalog.
package domain

import (
	"slices"
)

// BookID is the stable identifier assigned to a catalog row at import time.
// Titles are not unique in source data, so everything except result
// deduplication keys on BookID.
type BookID string

// Book is one row of the catalog.
type Book struct {
	ID         BookID   `json:"id" validate:"required"`
	Position   int      `json:"position" validate:"gte=0"`
	Title      string   `json:"title" validate:"required,max=1000"`
	Author     string   `json:"author" validate:"max=500"`
	AvgRating  float64  `json:"avg_rating" validate:"gte=0,lte=5"`
	NumRatings int64    `json:"num_ratings" validate:"gte=0"`
	Genres     []string `json:"genres"`
	URL        string   `json:"url" validate:"omitempty,url"`
}

// DisplayGenres returns the book's genres deduplicated and sorted, the
// order in which they are shown as badges.
func (b *Book) DisplayGenres() []string {
	out := slices.Clone(b.Genres)
	slices.Sort(out)
	return slices.Compact(out)
}

