package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookrec/internal/catalog"
	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

// abcBooks is the three-book catalog used by the worked examples.
func abcBooks() []domain.Book {
	return []domain.Book{
		{ID: "a", Title: "A", Genres: []string{"Fantasy", "Adventure"}},
		{ID: "b", Title: "B", Genres: []string{"Fantasy"}},
		{ID: "c", Title: "C", Genres: []string{"Horror"}},
	}
}

func newRecommender(t *testing.T, books []domain.Book) *Recommender {
	t.Helper()
	cat, err := catalog.New(books, "test")
	require.NoError(t, err)
	r, err := New(cat, nil)
	require.NoError(t, err)
	return r
}

func titles(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Book.Title
	}
	return out
}

func TestFit_SortedUnion(t *testing.T) {
	v := Fit([][]string{{"Fantasy", "Adventure"}, {"Fantasy"}, {"Horror"}})
	assert.Equal(t, []string{"Adventure", "Fantasy", "Horror"}, v.Labels())
	assert.Equal(t, 3, v.Len())

	i, ok := v.Index("Horror")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	label, ok := v.Label(0)
	require.True(t, ok)
	assert.Equal(t, "Adventure", label)

	_, ok = v.Label(3)
	assert.False(t, ok)
}

func TestFit_Deterministic(t *testing.T) {
	lists := [][]string{
		{"Romance", "Classics"},
		{"Science Fiction", "Classics", "Dystopia"},
		{},
		{"Horror", "Romance", "Horror"},
	}
	reordered := [][]string{
		{"Horror", "Horror", "Romance"},
		{},
		{"Dystopia", "Science Fiction", "Classics"},
		{"Classics", "Romance"},
	}

	assert.Equal(t, Fit(lists).Labels(), Fit(reordered).Labels())
}

func TestNewVocabulary(t *testing.T) {
	v, err := NewVocabulary([]string{"Horror", "Fantasy", "Horror"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantasy", "Horror"}, v.Labels())

	_, err = NewVocabulary(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLoad))
}

func TestVocabulary_Columns(t *testing.T) {
	v := Fit([][]string{{"Fantasy", "Adventure", "Horror"}})
	cols, unknown := v.Columns([]string{"Horror", "Poetry", "Adventure"})
	assert.Equal(t, []int{2, 0}, cols)
	assert.Equal(t, []string{"Poetry"}, unknown)
}

func TestEncode(t *testing.T) {
	v := Fit([][]string{{"Fantasy", "Adventure"}, {"Horror"}})

	tests := []struct {
		name   string
		genres []string
		want   []bool
	}{
		{"two genres", []string{"Fantasy", "Adventure"}, []bool{true, true, false}},
		{"duplicates collapse", []string{"Horror", "Horror"}, []bool{false, false, true}},
		{"unknown ignored", []string{"Poetry", "Fantasy"}, []bool{false, true, false}},
		{"empty", nil, []bool{false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := v.Encode(tt.genres)
			for c, want := range tt.want {
				assert.Equal(t, want, row.Test(uint(c)), "column %d", c)
			}
		})
	}
}

func TestEncode_CountEqualsDistinctGenres(t *testing.T) {
	books := []domain.Book{
		{Genres: []string{"A", "B", "A", "C"}},
		{Genres: []string{"C"}},
		{Genres: []string{}},
	}
	lists := make([][]string, len(books))
	for i := range books {
		lists[i] = books[i].Genres
	}
	v := Fit(lists)

	for _, b := range books {
		assert.Equal(t, uint(len(b.DisplayGenres())), v.Encode(b.Genres).Count())
	}
}

func TestBuildMatrix(t *testing.T) {
	books := abcBooks()
	vocab := Fit([][]string{{"Fantasy", "Adventure"}, {"Fantasy"}, {"Horror"}})

	m, err := BuildMatrix(books, vocab)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, []uint8{1, 1, 0}, m.Row(0))
	assert.Equal(t, []uint8{0, 1, 0}, m.Row(1))
	assert.Equal(t, []uint8{0, 0, 1}, m.Row(2))
	assert.Equal(t, domain.BookID("b"), m.ID(1))
	assert.Equal(t, 2, m.GenreCount(0))
}

func TestBuildMatrix_LoadErrors(t *testing.T) {
	vocab := Fit([][]string{{"Fantasy"}})

	_, err := BuildMatrix(nil, vocab)
	assert.True(t, errors.Is(err, errors.ErrLoad))

	_, err = BuildMatrix(abcBooks(), Fit(nil))
	assert.True(t, errors.Is(err, errors.ErrLoad))

	_, err = BuildMatrix(abcBooks(), nil)
	assert.True(t, errors.Is(err, errors.ErrLoad))
}

func TestSeedScores_Example(t *testing.T) {
	r := newRecommender(t, abcBooks())

	scores, err := r.Matrix().SeedScores(0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, scores)

	matches, err := r.SimilarToRow(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(matches))
	assert.Equal(t, []int{2, 1, 0}, []int{matches[0].Score, matches[1].Score, matches[2].Score})
}

func TestSeedScores_SelfSimilarityIsMaximal(t *testing.T) {
	books := []domain.Book{
		{ID: "1", Title: "One", Genres: []string{"A", "B", "C"}},
		{ID: "2", Title: "Two", Genres: []string{"A", "B", "C", "D", "E"}},
		{ID: "3", Title: "Three", Genres: []string{"B"}},
		{ID: "4", Title: "Four", Genres: []string{"F"}},
		{ID: "5", Title: "Five", Genres: nil},
	}
	r := newRecommender(t, books)
	m := r.Matrix()

	for idx := 0; idx < m.Rows(); idx++ {
		scores, err := m.SeedScores(idx)
		require.NoError(t, err)
		assert.Equal(t, m.GenreCount(idx), scores[idx])
		for i, s := range scores {
			assert.LessOrEqual(t, s, scores[idx], "row %d against seed %d", i, idx)
		}
	}
}

func TestSeedScores_Symmetric(t *testing.T) {
	r := newRecommender(t, abcBooks())
	m := r.Matrix()
	for i := 0; i < m.Rows(); i++ {
		si, err := m.SeedScores(i)
		require.NoError(t, err)
		for j := 0; j < m.Rows(); j++ {
			sj, err := m.SeedScores(j)
			require.NoError(t, err)
			assert.Equal(t, si[j], sj[i])
		}
	}
}

func TestSeedScores_OutOfRange(t *testing.T) {
	r := newRecommender(t, abcBooks())

	for _, idx := range []int{-1, 3, 100} {
		_, err := r.SimilarToRow(idx, 3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidQuery), "idx %d", idx)
	}
}

func TestGenreScores_Example(t *testing.T) {
	r := newRecommender(t, abcBooks())

	col, ok := r.Vocabulary().Index("Fantasy")
	require.True(t, ok)
	scores, err := r.Matrix().GenreScores([]int{col})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0}, scores)

	matches, err := r.ByGenres([]string{"Fantasy"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(matches))
}

func TestGenreScores_SetSemantics(t *testing.T) {
	r := newRecommender(t, abcBooks())
	m := r.Matrix()

	a, err := m.GenreScores([]int{0, 1})
	require.NoError(t, err)
	b, err := m.GenreScores([]int{1, 0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenreScores_Monotonic(t *testing.T) {
	books := []domain.Book{
		{ID: "1", Title: "One", Genres: []string{"A", "B", "C"}},
		{ID: "2", Title: "Two", Genres: []string{"A"}},
		{ID: "3", Title: "Three", Genres: []string{"C", "D"}},
		{ID: "4", Title: "Four", Genres: []string{"E"}},
	}
	r := newRecommender(t, books)
	m := r.Matrix()

	var selected []int
	prev := make([]int, m.Rows())
	for c := 0; c < m.Cols(); c++ {
		selected = append(selected, c)
		scores, err := m.GenreScores(selected)
		require.NoError(t, err)
		for i := range scores {
			assert.GreaterOrEqual(t, scores[i], prev[i])
		}
		prev = scores
	}

	// "One" holds every genre of {A, B, C}.
	scores, err := m.GenreScores([]int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, scores[0])
}

func TestGenreScores_Rejects(t *testing.T) {
	r := newRecommender(t, abcBooks())

	tests := []struct {
		name string
		cols []int
	}{
		{"empty", nil},
		{"negative", []int{-1}},
		{"too large", []int{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := r.Matrix().GenreScores(tt.cols)
			require.Error(t, err)
			assert.Nil(t, scores)
			assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
		})
	}
}

func TestByGenres_Rejects(t *testing.T) {
	r := newRecommender(t, abcBooks())

	_, err := r.ByGenres(nil, 3)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))

	_, err = r.ByGenres([]string{"Fantasy", "Poetry"}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
	assert.Contains(t, err.Error(), "Poetry")
}

func TestRank_Dedup(t *testing.T) {
	books := []domain.Book{
		{ID: "1", Title: "Dune", Author: "First"},
		{ID: "2", Title: "Other"},
		{ID: "3", Title: "Dune", Author: "Second"},
	}

	matches, err := Rank([]int{1, 2, 5}, books, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Second", matches[0].Book.Author, "highest scoring duplicate wins")
	assert.Equal(t, 2, matches[0].Row)
	assert.Equal(t, "Other", matches[1].Book.Title)

	matches, err = Rank([]int{3, 2, 3}, books, 10)
	require.NoError(t, err)
	assert.Equal(t, "First", matches[0].Book.Author, "ties resolve to the earlier row")
}

func TestRank_TieBreakByRow(t *testing.T) {
	books := make([]domain.Book, 6)
	for i := range books {
		books[i] = domain.Book{ID: domain.BookID(fmt.Sprint(i)), Title: fmt.Sprint("T", i)}
	}

	matches, err := Rank([]int{1, 3, 1, 3, 0, 1}, books, 6)
	require.NoError(t, err)

	rows := make([]int, len(matches))
	for i, m := range matches {
		rows[i] = m.Row
	}
	assert.Equal(t, []int{1, 3, 0, 2, 5, 4}, rows)
}

func TestRank_SizeBound(t *testing.T) {
	books := []domain.Book{
		{ID: "1", Title: "X"},
		{ID: "2", Title: "Y"},
		{ID: "3", Title: "X"},
		{ID: "4", Title: "Z"},
	}
	scores := []int{4, 3, 2, 1}

	tests := []struct {
		topN int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{10, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint("top_", tt.topN), func(t *testing.T) {
			matches, err := Rank(scores, books, tt.topN)
			require.NoError(t, err)
			assert.Len(t, matches, tt.want)
		})
	}
}

func TestRank_Rejects(t *testing.T) {
	books := abcBooks()

	_, err := Rank([]int{1, 2, 3}, books, 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))

	_, err = Rank([]int{1, 2}, books, 3)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
}

func TestRank_Deterministic(t *testing.T) {
	r := newRecommender(t, abcBooks())
	first, err := r.ByGenres([]string{"Fantasy"}, 3)
	require.NoError(t, err)
	for range 5 {
		again, err := r.ByGenres([]string{"Fantasy"}, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSimilarToBook(t *testing.T) {
	r := newRecommender(t, abcBooks())

	matches, err := r.SimilarToBook("b", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(matches))

	_, err = r.SimilarToBook("missing", 2)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestNew_FixedVocabulary(t *testing.T) {
	cat, err := catalog.New(abcBooks(), "test")
	require.NoError(t, err)

	vocab, err := NewVocabulary([]string{"Fantasy"})
	require.NoError(t, err)
	r, err := New(cat, vocab)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Matrix().Cols())
	assert.Equal(t, []uint8{0}, r.Matrix().Row(2), "labels outside the vocabulary are dropped")

	_, err = r.ByGenres([]string{"Horror"}, 3)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
}
