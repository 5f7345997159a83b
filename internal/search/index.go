// Package search resolves free-text input to catalog titles.
package search

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/bookrec/internal/catalog"
)

// TitleIndex is an in-memory Bleve index with one document per distinct
// catalog title. It is built once and only read afterwards.
type TitleIndex struct {
	index  bleve.Index
	logger *slog.Logger
}

// Title is one indexable catalog title.
type Title struct {
	Title string
	Row   int // first catalog row carrying the title
}

// Options configures the title index.
type Options struct {
	Logger *slog.Logger // Logger for operations (uses discard if nil)
}

// NewTitleIndex builds an index over titles.
func NewTitleIndex(titles []Title, opts Options) (*TitleIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("build index mapping: %w", err)
	}

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	t := &TitleIndex{index: index, logger: logger}
	if err := t.indexTitles(titles); err != nil {
		index.Close()
		return nil, err
	}

	logger.Info("title index built", "titles", len(titles))
	return t, nil
}

// FromCatalog builds an index over the distinct titles of cat, each keyed
// by its first row.
func FromCatalog(cat *catalog.Catalog, opts Options) (*TitleIndex, error) {
	titles := make([]Title, 0, cat.Len())
	for _, title := range cat.Titles() {
		row, _ := cat.IndexOfTitle(title)
		titles = append(titles, Title{Title: title, Row: row})
	}
	return NewTitleIndex(titles, opts)
}

// indexTitles adds titles in batches.
func (t *TitleIndex) indexTitles(titles []Title) error {
	const batchSize = 500

	for i := 0; i < len(titles); i += batchSize {
		end := min(i+batchSize, len(titles))

		batch := t.index.NewBatch()
		for _, title := range titles[i:end] {
			doc := map[string]any{
				"title":     title.Title,
				"title_key": title.Title,
				"row":       float64(title.Row),
			}
			if err := batch.Index(docID(title.Row), doc); err != nil {
				return fmt.Errorf("batch index %q: %w", title.Title, err)
			}
		}

		if err := t.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// Close releases the index.
func (t *TitleIndex) Close() error {
	return t.index.Close()
}

// DocumentCount returns the number of indexed titles.
func (t *TitleIndex) DocumentCount() (uint64, error) {
	return t.index.DocCount()
}

// docID zero-pads the row so that sorting by ID is sorting by row.
func docID(row int) string {
	return fmt.Sprintf("%010d", row)
}
