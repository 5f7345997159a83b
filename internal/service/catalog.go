// Package service holds the query front ends and supporting services that sit
// between the recommendation core and the HTTP and CLI surfaces.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/listenupapp/bookrec/internal/catalog"
	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/id"
	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/store/sqlite"
	"github.com/listenupapp/bookrec/internal/validation"
)

// CatalogService imports catalog exports into SQLite and loads them back.
type CatalogService struct {
	store     *sqlite.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store *sqlite.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ImportResult summarizes one import.
type ImportResult struct {
	Info    domain.CatalogInfo `json:"info"`
	Skipped []catalog.RowError `json:"-"`
}

// Import parses a CSV export, fits its vocabulary and replaces the stored
// catalog. Rows that fail validation are skipped and reported.
func (s *CatalogService) Import(ctx context.Context, r io.Reader, source string) (*ImportResult, error) {
	parsed, err := catalog.ParseCSV(r, s.validator)
	if err != nil {
		return nil, err
	}

	lists := make([][]string, len(parsed.Books))
	for i := range parsed.Books {
		lists[i] = parsed.Books[i].Genres
	}
	vocab := recommend.Fit(lists)
	if vocab.Len() == 0 {
		return nil, errors.Load("catalog export has no genre labels")
	}

	info := domain.CatalogInfo{
		Version:    id.NewCatalogVersion(),
		Source:     source,
		BookCount:  len(parsed.Books),
		GenreCount: vocab.Len(),
		ImportedAt: time.Now().UTC(),
	}

	if err := s.store.ReplaceCatalog(ctx, info, parsed.Books, vocab.Labels()); err != nil {
		return nil, errors.Wrap(err, errors.CodeLoad, "store catalog")
	}

	for _, skipped := range parsed.Skipped {
		s.logger.Warn("skipped catalog row", "line", skipped.Line, "error", skipped.Err)
	}
	s.logger.Info("catalog imported",
		"version", info.Version,
		"source", source,
		"books", info.BookCount,
		"genres", info.GenreCount,
		"skipped", len(parsed.Skipped),
	)

	return &ImportResult{Info: info, Skipped: parsed.Skipped}, nil
}

// Loaded is a catalog snapshot read back from storage.
type Loaded struct {
	Catalog    *catalog.Catalog
	Vocabulary *recommend.Vocabulary
	Info       domain.CatalogInfo
}

// Load reads the stored snapshot. Any failure is a load error: the server
// must not start without a catalog.
func (s *CatalogService) Load(ctx context.Context) (*Loaded, error) {
	info, err := s.store.CatalogInfo(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLoad, "read catalog books")
	}
	cat, err := catalog.New(books, info.Version)
	if err != nil {
		return nil, err
	}

	labels, err := s.store.LoadVocabulary(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLoad, "read vocabulary")
	}
	vocab, err := recommend.NewVocabulary(labels)
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog loaded",
		"version", info.Version,
		"books", cat.Len(),
		"genres", vocab.Len(),
		"duplicate_titles", cat.DuplicateTitles(),
	)

	return &Loaded{Catalog: cat, Vocabulary: vocab, Info: *info}, nil
}

// GenreCounts returns how many books carry each genre label.
func (s *CatalogService) GenreCounts(ctx context.Context) (map[string]int, error) {
	return s.store.GenreCounts(ctx)
}
