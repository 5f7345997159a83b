package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookrec/internal/service"
)

// Cache-Control header values.
const (
	CacheOneDay = "public, max-age=86400"
	CacheShort  = "public, max-age=300"
)

func (s *Server) registerCoverRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCover",
		Method:      http.MethodGet,
		Path:        "/api/v1/covers",
		Summary:     "Cover image",
		Description: "Returns a cover image URL for a title. Lookups that fail return the placeholder image.",
		Tags:        []string{"Covers"},
	}, s.handleGetCover)
}

// GetCoverInput contains parameters for a cover lookup.
type GetCoverInput struct {
	Title string `query:"title" required:"true" minLength:"1" doc:"Book title"`
}

// CoverResponse is a resolved cover image.
type CoverResponse struct {
	Title       string `json:"title" doc:"Title that was looked up"`
	URL         string `json:"url" doc:"Cover image URL"`
	Placeholder bool   `json:"placeholder" doc:"Whether URL is the placeholder image"`
	Cached      bool   `json:"cached" doc:"Whether the answer came from the cover cache"`
}

// CoverOutput wraps the cover response for Huma.
type CoverOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         CoverResponse
}

func (s *Server) handleGetCover(ctx context.Context, input *GetCoverInput) (*CoverOutput, error) {
	if s.services.Covers == nil {
		return &CoverOutput{
			CacheControl: CacheShort,
			Body:         CoverResponse{Title: input.Title, URL: service.DefaultPlaceholderURL, Placeholder: true},
		}, nil
	}

	cover := s.services.Covers.Cover(ctx, input.Title)

	// Placeholders expire with the failure TTL, so clients should re-ask sooner.
	cacheControl := CacheOneDay
	if cover.Placeholder {
		cacheControl = CacheShort
	}

	return &CoverOutput{
		CacheControl: cacheControl,
		Body: CoverResponse{
			Title:       cover.Title,
			URL:         cover.URL,
			Placeholder: cover.Placeholder,
			Cached:      cover.Cached,
		},
	}, nil
}
