package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookrec/internal/api"
	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/ratelimit"
	"github.com/listenupapp/bookrec/internal/service"
)

// httpShutdownTimeout bounds how long in-flight requests may drain.
const httpShutdownTimeout = 30 * time.Second

// RateLimiterHandle wraps the per-client limiter with Shutdownable.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the inbound rate limiter. The handle is empty
// when limiting is disabled.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	if cfg.RateLimit.RPS <= 0 {
		return &RateLimiterHandle{}, nil
	}
	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	loaded := do.MustInvoke[*service.Loaded](i)
	recommendService := do.MustInvoke[*service.RecommendService](i)
	coverService := do.MustInvoke[*service.CoverService](i)
	cacheHandle := do.MustInvoke[*CoverCacheHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Recommend: recommendService,
		Covers:    coverService,
		Cache:     cacheHandle.Store,
		Info:      loaded.Info,
	}

	handler := api.NewServer(services, api.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimiter:    limiterHandle.KeyedRateLimiter,
		AccessLog:      cfg.App.Environment == "development",
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running",
		"addr", srv.Addr,
		"catalog_version", loaded.Info.Version,
		"books", loaded.Catalog.Len(),
	)

	return &HTTPServerHandle{Server: srv}, nil
}
