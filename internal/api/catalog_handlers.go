package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookrec/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "Catalog summary",
		Description: "Returns the size and version of the loaded catalog and the request limits",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns every genre in the vocabulary, sorted, with slug and book count",
		Tags:        []string{"Catalog"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a catalog book by its stable ID",
		Tags:        []string{"Catalog"},
	}, s.handleGetBook)
}

// BookResponse is a catalog book as rendered to clients.
type BookResponse struct {
	ID         string   `json:"id" doc:"Stable book ID"`
	Title      string   `json:"title" doc:"Book title"`
	Author     string   `json:"author,omitempty" doc:"Author"`
	AvgRating  float64  `json:"avg_rating" doc:"Average rating"`
	NumRatings int64    `json:"num_ratings" doc:"Number of ratings"`
	Genres     []string `json:"genres" doc:"Deduplicated, sorted genre labels"`
	URL        string   `json:"url,omitempty" doc:"External link"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:         string(b.ID),
		Title:      b.Title,
		Author:     b.Author,
		AvgRating:  b.AvgRating,
		NumRatings: b.NumRatings,
		Genres:     b.DisplayGenres(),
		URL:        b.URL,
	}
}

// LimitsResponse describes request limits.
type LimitsResponse struct {
	DefaultTopN   int `json:"default_top_n" doc:"Results returned when top_n is omitted"`
	MaxTopN       int `json:"max_top_n" doc:"Larger top_n values are clamped to this"`
	MaxCandidates int `json:"max_candidates" doc:"Title suggestions returned at most"`
}

// CatalogResponse describes the loaded catalog.
type CatalogResponse struct {
	Version         string         `json:"version" doc:"Catalog import version"`
	Source          string         `json:"source,omitempty" doc:"Imported file"`
	ImportedAt      *time.Time     `json:"imported_at,omitempty" doc:"When the catalog was imported"`
	Books           int            `json:"books" doc:"Catalog rows"`
	DistinctTitles  int            `json:"distinct_titles" doc:"Distinct titles"`
	DuplicateTitles int            `json:"duplicate_titles" doc:"Rows whose title repeats an earlier row"`
	Genres          int            `json:"genres" doc:"Vocabulary size"`
	Limits          LimitsResponse `json:"limits" doc:"Request limits"`
}

// CatalogOutput wraps the catalog response for Huma.
type CatalogOutput struct {
	Body CatalogResponse
}

func (s *Server) handleGetCatalog(_ context.Context, _ *struct{}) (*CatalogOutput, error) {
	summary := s.services.Recommend.Summary()
	limits := s.services.Recommend.Limits()

	resp := CatalogResponse{
		Version:         summary.Version,
		Source:          s.services.Info.Source,
		Books:           summary.Books,
		DistinctTitles:  summary.DistinctTitles,
		DuplicateTitles: summary.DuplicateTitles,
		Genres:          summary.Genres,
		Limits: LimitsResponse{
			DefaultTopN:   limits.DefaultTopN,
			MaxTopN:       limits.MaxTopN,
			MaxCandidates: limits.MaxCandidates,
		},
	}
	if !s.services.Info.ImportedAt.IsZero() {
		importedAt := s.services.Info.ImportedAt
		resp.ImportedAt = &importedAt
	}

	return &CatalogOutput{Body: resp}, nil
}

// GenreResponse is one vocabulary entry.
type GenreResponse struct {
	Label string `json:"label" doc:"Genre label as it appears in the catalog"`
	Slug  string `json:"slug" doc:"URL-safe form, accepted wherever a genre is expected"`
	Books int    `json:"books" doc:"Books tagged with this genre"`
}

// ListGenresOutput wraps the genre list for Huma.
type ListGenresOutput struct {
	Body struct {
		Genres []GenreResponse `json:"genres" doc:"Genres in vocabulary order"`
	}
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*ListGenresOutput, error) {
	entries := s.services.Recommend.Genres()
	counts := s.services.Recommend.GenreCounts()

	out := &ListGenresOutput{}
	out.Body.Genres = make([]GenreResponse, len(entries))
	for i, e := range entries {
		out.Body.Genres[i] = GenreResponse{Label: e.Label, Slug: e.Slug, Books: counts[e.Label]}
	}
	return out, nil
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a book for Huma.
type BookOutput struct {
	Body BookResponse
}

func (s *Server) handleGetBook(_ context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Recommend.Book(domain.BookID(input.ID))
	if err != nil {
		return nil, toAPIError(err)
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}
