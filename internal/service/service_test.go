package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookrec/internal/catalog"
	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/search"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBooks() []domain.Book {
	return []domain.Book{
		{ID: "b-hobbit", Title: "The Hobbit", Author: "Tolkien", Genres: []string{"Fantasy", "Adventure", "Classics"}},
		{ID: "b-lotr", Title: "The Lord of the Rings", Author: "Tolkien", Genres: []string{"Fantasy", "Adventure"}},
		{ID: "b-dracula", Title: "Dracula", Author: "Stoker", Genres: []string{"Horror", "Classics"}},
		{ID: "b-hp1", Title: "Harry Potter and the Sorcerer's Stone", Genres: []string{"Fantasy", "Young Adult"}},
		{ID: "b-hp2", Title: "Harry Potter and the Chamber of Secrets", Genres: []string{"Fantasy", "Young Adult"}},
		{ID: "b-dracula-2", Title: "Dracula", Author: "Reprint", Genres: []string{"Horror", "Classics", "Gothic"}},
		{ID: "b-dune", Title: "Dune", Genres: []string{"Science Fiction", "Classics"}},
	}
}

func newTestRecommendService(t *testing.T, cfg RecommendConfig) *RecommendService {
	t.Helper()

	cat, err := catalog.New(testBooks(), "test")
	require.NoError(t, err)
	rec, err := recommend.New(cat, nil)
	require.NoError(t, err)

	index, err := search.FromCatalog(cat, search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return NewRecommendService(rec, index, cfg, discardLogger())
}
