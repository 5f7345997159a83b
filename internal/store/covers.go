package store

import (
	"time"
)

const coverPrefix = "cover:"

// CoverEntry is a cached cover lookup result.
type CoverEntry struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	CoverID     int64     `json:"cover_id,omitempty"`
	Placeholder bool      `json:"placeholder"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// GetCover returns the cached entry for title, or ErrNotFound.
func (s *Store) GetCover(title string) (*CoverEntry, error) {
	key := buildKey(coverPrefix, normalizeTitle(title))
	defer releaseKey(key)

	var entry CoverEntry
	if err := s.get(key, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// PutCover caches entry under its title. ttl <= 0 keeps it until the
// database is closed (or forever, for an on-disk cache).
func (s *Store) PutCover(entry *CoverEntry, ttl time.Duration) error {
	key := buildKey(coverPrefix, normalizeTitle(entry.Title))
	defer releaseKey(key)
	return s.set(key, entry, ttl)
}

// DeleteCover drops the cached entry for title.
func (s *Store) DeleteCover(title string) error {
	key := buildKey(coverPrefix, normalizeTitle(title))
	defer releaseKey(key)
	return s.delete(key)
}

// CoverCount returns the number of cached, unexpired covers.
func (s *Store) CoverCount() (int, error) {
	return s.count(coverPrefix)
}
