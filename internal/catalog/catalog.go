// Package catalog holds the immutable, in-memory book catalog the recommender
// is built from.
package catalog

import (
	"slices"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

// Catalog is an ordered, read-only list of books. Row order is the order the
// books were loaded in and is the row order of every structure derived from it.
//
// A Catalog is never mutated after New returns, so it is safe for concurrent use.
type Catalog struct {
	books   []domain.Book
	byID    map[domain.BookID]int
	byTitle map[string]int // first row carrying each title
	titles  []string
	version string
}

// New builds a catalog from books in row order. The slice is copied.
// An empty catalog, a book without an ID, or a repeated ID is a load error.
func New(books []domain.Book, version string) (*Catalog, error) {
	if len(books) == 0 {
		return nil, errors.Load("catalog is empty")
	}

	c := &Catalog{
		books:   make([]domain.Book, len(books)),
		byID:    make(map[domain.BookID]int, len(books)),
		byTitle: make(map[string]int, len(books)),
		titles:  make([]string, 0, len(books)),
		version: version,
	}

	for i := range books {
		b := books[i]
		b.Genres = slices.Clone(b.Genres)
		b.Position = i

		if b.ID == "" {
			return nil, errors.Loadf("book at row %d has no id", i)
		}
		if prev, dup := c.byID[b.ID]; dup {
			return nil, errors.Loadf("book id %q repeated at rows %d and %d", b.ID, prev, i)
		}

		c.books[i] = b
		c.byID[b.ID] = i
		if _, seen := c.byTitle[b.Title]; !seen {
			c.byTitle[b.Title] = i
			c.titles = append(c.titles, b.Title)
		}
	}

	return c, nil
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Version identifies the import this catalog was loaded from.
func (c *Catalog) Version() string {
	return c.version
}

// Book returns the book at row i. The returned value is a copy.
func (c *Catalog) Book(i int) (domain.Book, bool) {
	if i < 0 || i >= len(c.books) {
		return domain.Book{}, false
	}
	b := c.books[i]
	b.Genres = slices.Clone(b.Genres)
	return b, true
}

// Books returns the rows in order. Callers must not modify the result.
func (c *Catalog) Books() []domain.Book {
	return c.books
}

// IndexOfID returns the row of the book with the given ID.
func (c *Catalog) IndexOfID(id domain.BookID) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// IndexOfTitle returns the first row carrying title exactly.
func (c *Catalog) IndexOfTitle(title string) (int, bool) {
	i, ok := c.byTitle[title]
	return i, ok
}

// Titles returns the distinct titles in first-seen row order.
func (c *Catalog) Titles() []string {
	return slices.Clone(c.titles)
}

// GenreLists returns every row's raw genre list, in row order.
func (c *Catalog) GenreLists() [][]string {
	lists := make([][]string, len(c.books))
	for i := range c.books {
		lists[i] = c.books[i].Genres
	}
	return lists
}

// DuplicateTitles returns how many rows share a title with an earlier row.
// Titles are only a dedup key for ranking; this is reported at load time as
// a data-quality signal.
func (c *Catalog) DuplicateTitles() int {
	return len(c.books) - len(c.titles)
}
