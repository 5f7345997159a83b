package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/metadata/openlibrary"
	"github.com/listenupapp/bookrec/internal/service"
	"github.com/listenupapp/bookrec/internal/store"
)

// CoverCacheHandle wraps the Badger cover cache with Shutdownable.
type CoverCacheHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *CoverCacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCoverCache opens the cover cache, in memory unless a path is set.
func ProvideCoverCache(i do.Injector) (*CoverCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	st, err := store.New(cfg.Covers.CachePath, log)
	if err != nil {
		return nil, err
	}
	return &CoverCacheHandle{Store: st}, nil
}

// OpenLibraryClientHandle wraps the Open Library client with Shutdownable.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *OpenLibraryClientHandle) Shutdown() error {
	if h.Client != nil {
		h.Close()
	}
	return nil
}

// ProvideOpenLibraryClient provides the cover lookup client. The handle is
// empty when covers are disabled.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if !cfg.Covers.Enabled {
		log.Info("Cover lookups disabled by configuration")
		return &OpenLibraryClientHandle{}, nil
	}

	client := openlibrary.NewClient(openlibrary.Config{
		SearchURL: cfg.Covers.SearchURL,
		ImageURL:  cfg.Covers.ImageURL,
		Timeout:   cfg.Covers.Timeout,
		RPS:       cfg.Covers.RPS,
	}, log)

	return &OpenLibraryClientHandle{Client: client}, nil
}

// ProvideCoverService provides the cover service.
func ProvideCoverService(i do.Injector) (*service.CoverService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	cacheHandle := do.MustInvoke[*CoverCacheHandle](i)
	clientHandle := do.MustInvoke[*OpenLibraryClientHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	// A nil *Client inside the interface would not compare equal to nil.
	var lookup service.CoverLookup
	if clientHandle.Client != nil {
		lookup = clientHandle.Client
	}

	return service.NewCoverService(lookup, cacheHandle.Store, service.CoverConfig{
		Enabled:        cfg.Covers.Enabled,
		PlaceholderURL: cfg.Covers.PlaceholderURL,
		FailureTTL:     cfg.Covers.FailureTTL,
		LookupTimeout:  3 * cfg.Covers.Timeout, // rate limiter wait plus one request
	}, log), nil
}
