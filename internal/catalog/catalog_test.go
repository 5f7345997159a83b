package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

func sampleBooks() []domain.Book {
	return []domain.Book{
		{ID: "book-a", Title: "A", Genres: []string{"Fantasy", "Adventure"}},
		{ID: "book-b", Title: "B", Genres: []string{"Fantasy"}},
		{ID: "book-c", Title: "A", Genres: []string{"Horror"}},
	}
}

func TestNew(t *testing.T) {
	c, err := New(sampleBooks(), "v1")
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "v1", c.Version())
	assert.Equal(t, []string{"A", "B"}, c.Titles())
	assert.Equal(t, 1, c.DuplicateTitles())

	for i, b := range c.Books() {
		assert.Equal(t, i, b.Position)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		books []domain.Book
	}{
		{"empty", nil},
		{"missing id", []domain.Book{{Title: "X"}}},
		{"duplicate id", []domain.Book{{ID: "x", Title: "X"}, {ID: "x", Title: "Y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.books, "v")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrLoad))
		})
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := New(sampleBooks(), "v1")
	require.NoError(t, err)

	i, ok := c.IndexOfID("book-c")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = c.IndexOfTitle("A")
	require.True(t, ok)
	assert.Equal(t, 0, i, "first row carrying the title wins")

	_, ok = c.IndexOfTitle("a")
	assert.False(t, ok)

	_, ok = c.Book(3)
	assert.False(t, ok)
	_, ok = c.Book(-1)
	assert.False(t, ok)
}

func TestCatalog_IsolatedFromCaller(t *testing.T) {
	books := sampleBooks()
	c, err := New(books, "v1")
	require.NoError(t, err)

	books[0].Genres[0] = "Changed"
	b, ok := c.Book(0)
	require.True(t, ok)
	assert.Equal(t, "Fantasy", b.Genres[0])

	b.Genres[0] = "Changed again"
	again, _ := c.Book(0)
	assert.Equal(t, "Fantasy", again.Genres[0])
}

func TestCatalog_GenreLists(t *testing.T) {
	c, err := New(sampleBooks(), "v1")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Fantasy", "Adventure"},
		{"Fantasy"},
		{"Horror"},
	}, c.GenreLists())
}
