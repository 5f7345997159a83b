// Package di provides dependency injection configuration for the bookrec server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/di/providers"
	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogStore)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideLoadedCatalog)

	// Recommendation layer
	do.Provide(injector, providers.ProvideRecommender)
	do.Provide(injector, providers.ProvideTitleIndex)
	do.Provide(injector, providers.ProvideRecommendService)

	// Cover layer
	do.Provide(injector, providers.ProvideCoverCache)
	do.Provide(injector, providers.ProvideOpenLibraryClient)
	do.Provide(injector, providers.ProvideCoverService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order. Any provider
// error, such as a missing catalog, aborts startup.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*slog.Logger](injector)

	if _, err := do.Invoke[*service.Loaded](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*recommend.Recommender](injector)
	_ = do.MustInvoke[*providers.TitleIndexHandle](injector)
	_ = do.MustInvoke[*service.RecommendService](injector)
	_ = do.MustInvoke[*service.CoverService](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
