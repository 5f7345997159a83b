package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Science Fiction", "science-fiction"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"Children's", "children-s"},
		{"  Café  Noir ", "cafe-noir"},
		{"LGBT", "lgbt"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIndex_Resolve(t *testing.T) {
	x := NewIndex([]string{"Fantasy", "Historical Fiction", "Science Fiction", "Young Adult", "Childrens"})

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"exact label", "Fantasy", "Fantasy", true},
		{"case folded", "fantasy", "Fantasy", true},
		{"slug", "historical-fiction", "Historical Fiction", true},
		{"alias", "Sci-Fi", "Science Fiction", true},
		{"alias ya", "YA", "Young Adult", true},
		{"alias with apostrophe", "Children's", "Childrens", true},
		{"alias to missing label", "Manga Comics", "", false},
		{"unknown", "Poetry", "", false},
		{"blank", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := x.Resolve(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_SlugCollision(t *testing.T) {
	x := NewIndex([]string{"Sci Fi", "Sci-Fi"})

	got, ok := x.Resolve("sci-fi")
	assert.True(t, ok)
	assert.Equal(t, "Sci Fi", got)

	got, ok = x.Resolve("Sci-Fi")
	assert.True(t, ok)
	assert.Equal(t, "Sci-Fi", got, "exact label wins over slug")
}

func TestIndex_ResolveAll(t *testing.T) {
	x := NewIndex([]string{"Fantasy", "Horror"})

	labels, unknown := x.ResolveAll([]string{"horror", "Fantasy", "HORROR", "Poetry"})
	assert.Equal(t, []string{"Horror", "Fantasy"}, labels)
	assert.Equal(t, []string{"Poetry"}, unknown)
}

func TestIndex_Entries(t *testing.T) {
	x := NewIndex([]string{"Fantasy", "Science Fiction"})
	assert.Equal(t, []Entry{
		{Label: "Fantasy", Slug: "fantasy"},
		{Label: "Science Fiction", Slug: "science-fiction"},
	}, x.Entries())
}
