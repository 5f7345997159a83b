package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookrec/internal/domain"
	domainerrors "github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/validation"
)

func validBook() domain.Book {
	return domain.Book{
		ID:         "book-1",
		Title:      "The Hobbit",
		Author:     "J.R.R. Tolkien",
		AvgRating:  4.27,
		NumRatings: 3_000_000,
		Genres:     []string{"Fantasy", "Classics"},
		URL:        "https://www.goodreads.com/book/show/5907.The_Hobbit",
	}
}

func TestValidator_ValidBook(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validBook()))
}

func TestValidator_InvalidBook(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name   string
		mutate func(*domain.Book)
		field  string
	}{
		{"missing title", func(b *domain.Book) { b.Title = "" }, "title"},
		{"missing id", func(b *domain.Book) { b.ID = "" }, "id"},
		{"rating above five", func(b *domain.Book) { b.AvgRating = 5.5 }, "avg_rating"},
		{"negative rating count", func(b *domain.Book) { b.NumRatings = -1 }, "num_ratings"},
		{"bad url", func(b *domain.Book) { b.URL = "not a url" }, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			tt.mutate(&b)

			err := v.Validate(b)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestValidator_EmptyURLAllowed(t *testing.T) {
	v := validation.New()
	b := validBook()
	b.URL = ""
	assert.NoError(t, v.Validate(b))
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("placeholder_url", "https://via.placeholder.com/160x240.png", "required,url"))

	err := v.Var("placeholder_url", "nope", "required,url")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}
