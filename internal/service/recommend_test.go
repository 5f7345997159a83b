package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/recommend"
)

func resultTitles(matches []recommend.Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Book.Title
	}
	return out
}

func TestRecommendService_SimilarByTitle_Exact(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})

	rec, err := s.SimilarByTitle(context.Background(), "The Hobbit", 3)
	require.NoError(t, err)
	assert.Equal(t, ModeSimilar, rec.Mode)
	require.NotNil(t, rec.Seed)
	assert.Equal(t, "The Hobbit", rec.Seed.Title)
	assert.Equal(t, 3, rec.TopN)
	require.Len(t, rec.Results, 3)
	assert.Equal(t, "The Hobbit", rec.Results[0].Book.Title)
	assert.Equal(t, 3, rec.Results[0].Score)
	assert.Equal(t, "The Lord of the Rings", rec.Results[1].Book.Title)
}

func TestRecommendService_SimilarByTitle_Dedup(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})

	rec, err := s.SimilarByID(context.Background(), "b-dracula-2", 10)
	require.NoError(t, err)

	count := 0
	for _, m := range rec.Results {
		if m.Book.Title == "Dracula" {
			count++
			assert.Equal(t, "Reprint", m.Book.Author, "the seed row scores highest and wins the title")
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, rec.Results, 6, "seven rows, six distinct titles")
}

func TestRecommendService_ResolveTitle(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})
	ctx := context.Background()

	res, err := s.ResolveTitle(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", res.Book.Title)
	assert.True(t, res.Exact)

	res, err = s.ResolveTitle(ctx, "Hobit")
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", res.Book.Title)
	assert.False(t, res.Exact)

	_, err = s.ResolveTitle(ctx, "Harry Potter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAmbiguous))
	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.ElementsMatch(t, []string{
		"Harry Potter and the Sorcerer's Stone",
		"Harry Potter and the Chamber of Secrets",
	}, domainErr.Details)

	_, err = s.ResolveTitle(ctx, "qqqqzzzz")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = s.ResolveTitle(ctx, "   ")
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
}

func TestRecommendService_ByGenres(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})

	rec, err := s.ByGenres(context.Background(), []string{"fantasy", "young-adult"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantasy", "Young Adult"}, rec.Genres)
	assert.Equal(t, []string{
		"Harry Potter and the Sorcerer's Stone",
		"Harry Potter and the Chamber of Secrets",
	}, resultTitles(rec.Results))
	assert.Equal(t, 2, rec.Results[0].Score)
}

func TestRecommendService_ByGenres_Alias(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})

	rec, err := s.ByGenres(context.Background(), []string{"sci-fi"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, resultTitles(rec.Results))
}

func TestRecommendService_ByGenres_Rejects(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})
	ctx := context.Background()

	_, err := s.ByGenres(ctx, nil, 5)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))

	_, err = s.ByGenres(ctx, []string{"Fantasy", "Poetry"}, 5)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
	assert.Contains(t, err.Error(), "Poetry")
}

func TestRecommendService_TopN(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{DefaultTopN: 2, MaxTopN: 4})
	ctx := context.Background()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, 2},
		{"explicit", 3, 3},
		{"clamped", 100, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := s.ByGenres(ctx, []string{"Classics"}, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.TopN)
			assert.LessOrEqual(t, len(rec.Results), tt.want)
		})
	}

	_, err := s.ByGenres(ctx, []string{"Classics"}, -1)
	assert.True(t, errors.Is(err, errors.ErrInvalidQuery))
}

func TestRecommendService_Lookups(t *testing.T) {
	s := newTestRecommendService(t, RecommendConfig{})

	book, err := s.Book("b-dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	_, err = s.Book("missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = s.SimilarByID(context.Background(), "missing", 5)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	summary := s.Summary()
	assert.Equal(t, 7, summary.Books)
	assert.Equal(t, 6, summary.DistinctTitles)
	assert.Equal(t, 1, summary.DuplicateTitles)
	assert.Equal(t, 7, summary.Genres)

	genres := s.Genres()
	require.Len(t, genres, 7)
	assert.Equal(t, "Adventure", genres[0].Label)
	assert.Equal(t, "science-fiction", genres[5].Slug)
}
