package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultSearchURL = "https://openlibrary.org/search.json"
	// DefaultImageURL takes the numeric cover ID.
	DefaultImageURL = "https://covers.openlibrary.org/b/id/%d-M.jpg"
)

// Config configures a Client. Zero values select the defaults.
type Config struct {
	SearchURL string
	ImageURL  string
	Timeout   time.Duration
	RPS       float64
	Burst     int
}

// Client looks up cover images on Open Library.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	searchURL   string
	imageURL    string
	logger      *slog.Logger
}

// NewClient creates a new Open Library client. Requests are rate limited
// client-side; the default of one request per second with a burst of 5 stays
// well inside Open Library's published guidance.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.ImageURL == "" {
		cfg.ImageURL = DefaultImageURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		searchURL:   cfg.SearchURL,
		imageURL:    cfg.ImageURL,
		logger:      logger,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
