package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/metadata/openlibrary"
	"github.com/listenupapp/bookrec/internal/metrics"
	"github.com/listenupapp/bookrec/internal/store"
)

// DefaultPlaceholderURL is shown when no cover can be found.
const DefaultPlaceholderURL = "https://via.placeholder.com/160x240.png?text=No+Cover"

// CoverLookup finds a cover image URL for a title.
type CoverLookup interface {
	CoverURL(ctx context.Context, title string) (string, int64, error)
}

// Cover is a resolved cover image.
type Cover struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Placeholder bool   `json:"placeholder"`
	Cached      bool   `json:"cached"`
}

// CoverConfig configures the cover service.
type CoverConfig struct {
	Enabled          bool
	PlaceholderURL   string
	FailureTTL       time.Duration // how long a placeholder result is cached
	FailureThreshold uint32        // consecutive failures before the breaker opens
	OpenTimeout      time.Duration // how long the breaker stays open
	LookupTimeout    time.Duration // bounds one shared lookup, rate-limit wait included
}

// CoverService resolves cover images by title. It never returns an error:
// every failure degrades to the placeholder. Results are cached in Badger,
// concurrent misses for one title share a single lookup, and a circuit
// breaker stops calling Open Library while it is failing.
type CoverService struct {
	lookup  CoverLookup
	cache   *store.Store
	cfg     CoverConfig
	group   singleflight.Group
	breaker *gobreaker.CircuitBreaker[*store.CoverEntry]
	logger  *slog.Logger
}

// NewCoverService creates a new cover service. lookup may be nil when
// covers are disabled.
func NewCoverService(lookup CoverLookup, cache *store.Store, cfg CoverConfig, logger *slog.Logger) *CoverService {
	if cfg.PlaceholderURL == "" {
		cfg.PlaceholderURL = DefaultPlaceholderURL
	}
	if cfg.FailureTTL <= 0 {
		cfg.FailureTTL = 10 * time.Minute
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 15 * time.Second
	}
	if lookup == nil {
		cfg.Enabled = false
	}

	s := &CoverService{
		lookup: lookup,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}

	s.breaker = gobreaker.NewCircuitBreaker[*store.CoverEntry](gobreaker.Settings{
		Name:        "openlibrary-covers",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A title without a cover is an answer, not an outage.
			return err == nil ||
				errors.Is(err, openlibrary.ErrNotFound) ||
				errors.Is(err, openlibrary.ErrNoCover)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CoverCircuitState.Set(float64(to))
			logger.Warn("cover lookup circuit changed state",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return s
}

// Cover returns the cover for title, or the placeholder.
func (s *CoverService) Cover(ctx context.Context, title string) Cover {
	title = strings.TrimSpace(title)
	if title == "" || !s.cfg.Enabled {
		metrics.RecordCoverLookup("placeholder")
		return s.placeholder(title)
	}

	if entry, err := s.cache.GetCover(title); err == nil {
		metrics.RecordCoverLookup("hit")
		return Cover{Title: title, URL: entry.URL, Placeholder: entry.Placeholder, Cached: true}
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("cover cache read failed", "title", title, "error", err)
	}

	// The shared lookup outlives any one caller; each caller stops waiting
	// on its own context.
	ch := s.group.DoChan(strings.ToLower(title), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LookupTimeout)
		defer cancel()
		return s.fetch(fetchCtx, title), nil
	})

	var entry *store.CoverEntry
	select {
	case res := <-ch:
		entry, _ = res.Val.(*store.CoverEntry)
	case <-ctx.Done():
		s.logger.Debug("cover wait abandoned", "title", title, "error", ctx.Err())
	}
	if entry == nil || entry.Placeholder {
		metrics.RecordCoverLookup("placeholder")
		return s.placeholder(title)
	}

	metrics.RecordCoverLookup("found")
	return Cover{Title: title, URL: entry.URL}
}

// fetch performs one lookup and caches its outcome. Failures are absorbed
// here and come back as a placeholder entry.
func (s *CoverService) fetch(ctx context.Context, title string) *store.CoverEntry {
	entry, err := s.breaker.Execute(func() (*store.CoverEntry, error) {
		url, coverID, err := s.lookup.CoverURL(ctx, title)
		if err != nil {
			return nil, err
		}
		return &store.CoverEntry{
			Title:     title,
			URL:       url,
			CoverID:   coverID,
			FetchedAt: time.Now().UTC(),
		}, nil
	})

	if err == nil {
		s.put(entry, 0)
		return entry
	}

	failure := errors.LookupFailure(err, "cover lookup failed")
	placeholder := &store.CoverEntry{
		Title:       title,
		URL:         s.cfg.PlaceholderURL,
		Placeholder: true,
		FetchedAt:   time.Now().UTC(),
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		s.logger.Debug("cover lookup skipped, circuit open", "title", title)
	default:
		s.logger.Info("cover lookup degraded to placeholder", "title", title, "error", failure)
		s.put(placeholder, s.cfg.FailureTTL)
	}
	return placeholder
}

func (s *CoverService) put(entry *store.CoverEntry, ttl time.Duration) {
	if err := s.cache.PutCover(entry, ttl); err != nil {
		s.logger.Warn("cover cache write failed", "title", entry.Title, "error", err)
	}
}

func (s *CoverService) placeholder(title string) Cover {
	return Cover{Title: title, URL: s.cfg.PlaceholderURL, Placeholder: true}
}

// PlaceholderURL returns the configured placeholder image.
func (s *CoverService) PlaceholderURL() string {
	return s.cfg.PlaceholderURL
}
