// Package providers contains dependency injection providers for the bookrec server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.Setup(cfg.App.Environment, cfg.Logger.Level)

	log.Info("Starting bookrec server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
		"catalog_db", cfg.Storage.CatalogDBPath,
	)

	return log, nil
}
