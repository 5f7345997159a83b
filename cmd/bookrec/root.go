package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/logger"
	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/search"
	"github.com/listenupapp/bookrec/internal/service"
	"github.com/listenupapp/bookrec/internal/store/sqlite"
)

// app holds state shared by every subcommand.
type app struct {
	catalogDB string
	logLevel  string
	jsonOut   bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "bookrec",
		Short: "Genre-based book recommendations",
		Long: `bookrec recommends books from a Goodreads-style catalog export.
Books are scored by how many genres they share with a seed book or with a
set of selected genres.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	cmd.PersistentFlags().StringVar(&a.catalogDB, "catalog-db", "", "path to the SQLite catalog (default: ~/.bookrec/catalog.db)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output results as JSON")

	cmd.AddCommand(
		newImportCmd(a),
		newSimilarCmd(a),
		newGenresCmd(a),
	)

	return cmd
}

// setup loads configuration from the environment and applies the flags.
func (a *app) setup() error {
	args := []string{"-log-level", a.logLevel}
	if a.catalogDB != "" {
		args = append(args, "-catalog-db", a.catalogDB)
	}
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.New(logger.Config{
		Level:       logger.ParseLevel(a.logLevel),
		Environment: "development",
		Writer:      os.Stderr,
	})
	return nil
}

// openCatalog opens the catalog database, creating its directory.
func (a *app) openCatalog() (*service.CatalogService, func(), error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.Storage.CatalogDBPath), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeLoad, "create catalog directory")
	}
	st, err := sqlite.Open(a.cfg.Storage.CatalogDBPath, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return service.NewCatalogService(st, a.logger), func() { _ = st.Close() }, nil
}

// engine is the loaded query stack.
type engine struct {
	catalog   *service.CatalogService
	recommend *service.RecommendService
	close     func()
}

// openEngine loads the stored catalog and builds the recommender over it.
func (a *app) openEngine(ctx context.Context) (*engine, error) {
	catalogService, closeStore, err := a.openCatalog()
	if err != nil {
		return nil, err
	}

	loaded, err := catalogService.Load(ctx)
	if err != nil {
		closeStore()
		return nil, err
	}

	rec, err := recommend.New(loaded.Catalog, loaded.Vocabulary)
	if err != nil {
		closeStore()
		return nil, err
	}

	index, err := search.FromCatalog(loaded.Catalog, search.Options{Logger: a.logger})
	if err != nil {
		closeStore()
		return nil, err
	}

	recommendService := service.NewRecommendService(rec, index, service.RecommendConfig{
		DefaultTopN:   a.cfg.Recommend.DefaultTopN,
		MaxTopN:       a.cfg.Recommend.MaxTopN,
		MaxCandidates: a.cfg.Recommend.MaxCandidates,
	}, a.logger)

	return &engine{
		catalog:   catalogService,
		recommend: recommendService,
		close: func() {
			_ = index.Close()
			closeStore()
		},
	}, nil
}
