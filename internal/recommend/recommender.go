package recommend

import (
	"strings"

	"github.com/listenupapp/bookrec/internal/catalog"
	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

// Recommender bundles a catalog with its vocabulary and feature matrix.
// It is assembled once and never mutated, so it is safe for concurrent use.
type Recommender struct {
	catalog *catalog.Catalog
	vocab   *Vocabulary
	matrix  *Matrix
}

// New builds the feature matrix for cat. A nil vocab is fitted from the
// catalog. Every matrix row must line up with the catalog row of the same
// BookID.
func New(cat *catalog.Catalog, vocab *Vocabulary) (*Recommender, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, errors.Load("recommender needs a non-empty catalog")
	}
	if vocab == nil {
		vocab = Fit(cat.GenreLists())
	}

	matrix, err := BuildMatrix(cat.Books(), vocab)
	if err != nil {
		return nil, err
	}

	for i := 0; i < matrix.Rows(); i++ {
		if j, ok := cat.IndexOfID(matrix.ID(i)); !ok || j != i {
			return nil, errors.Loadf("feature row %d (%s) is not aligned with the catalog", i, matrix.ID(i))
		}
	}

	return &Recommender{catalog: cat, vocab: vocab, matrix: matrix}, nil
}

// Catalog returns the catalog the recommender was built from.
func (r *Recommender) Catalog() *catalog.Catalog { return r.catalog }

// Vocabulary returns the fitted genre vocabulary.
func (r *Recommender) Vocabulary() *Vocabulary { return r.vocab }

// Matrix returns the feature matrix.
func (r *Recommender) Matrix() *Matrix { return r.matrix }

// SimilarToRow ranks the catalog against the book at row idx. The seed
// itself is part of the result, normally in first place.
func (r *Recommender) SimilarToRow(idx, topN int) ([]Match, error) {
	scores, err := r.matrix.SeedScores(idx)
	if err != nil {
		return nil, err
	}
	return Rank(scores, r.catalog.Books(), topN)
}

// SimilarToBook is SimilarToRow keyed by BookID.
func (r *Recommender) SimilarToBook(id domain.BookID, topN int) ([]Match, error) {
	idx, ok := r.catalog.IndexOfID(id)
	if !ok {
		return nil, errors.NotFoundf("book %q not found", id)
	}
	return r.SimilarToRow(idx, topN)
}

// ByGenres ranks the catalog by how many of the given genres each book has.
// Every label must belong to the vocabulary.
func (r *Recommender) ByGenres(labels []string, topN int) ([]Match, error) {
	if len(labels) == 0 {
		return nil, errors.InvalidQuery("at least one genre must be selected")
	}

	cols, unknown := r.vocab.Columns(labels)
	if len(unknown) > 0 {
		return nil, errors.InvalidQueryf("unknown genres: %s", strings.Join(unknown, ", ")).
			WithDetails(map[string]any{"unknown": unknown})
	}

	scores, err := r.matrix.GenreScores(cols)
	if err != nil {
		return nil, err
	}
	return Rank(scores, r.catalog.Books(), topN)
}
