package providers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/metrics"
	"github.com/listenupapp/bookrec/internal/service"
	"github.com/listenupapp/bookrec/internal/store/sqlite"
)

// CatalogStoreHandle wraps the SQLite catalog store with Shutdownable.
type CatalogStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *CatalogStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalogStore opens the SQLite catalog database.
func ProvideCatalogStore(i do.Injector) (*CatalogStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.CatalogDBPath), 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeLoad, "create catalog directory")
	}

	st, err := sqlite.Open(cfg.Storage.CatalogDBPath, log)
	if err != nil {
		return nil, err
	}

	return &CatalogStoreHandle{Store: st}, nil
}

// ProvideCatalogService provides the catalog import and load service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*CatalogStoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewCatalogService(storeHandle.Store, log), nil
}

// ProvideLoadedCatalog imports the configured CSV export, if any, and loads
// the stored catalog. Startup fails when no catalog can be loaded.
func ProvideLoadedCatalog(i do.Injector) (*service.Loaded, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)
	log := do.MustInvoke[*slog.Logger](i)

	ctx := context.Background()

	if path := cfg.Storage.CatalogImportPath; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeLoad, "open catalog export")
		}
		result, err := catalogService.Import(ctx, f, filepath.Base(path))
		f.Close()
		if err != nil {
			return nil, err
		}
		log.Info("Imported catalog at startup",
			"path", path,
			"books", result.Info.BookCount,
			"skipped", len(result.Skipped),
		)
	}

	loaded, err := catalogService.Load(ctx)
	if err != nil {
		return nil, err
	}

	metrics.SetCatalog(loaded.Catalog.Len(), loaded.Vocabulary.Len(), loaded.Catalog.DuplicateTitles())

	return loaded, nil
}
