package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/bookrec/internal/domain"
	domainerrors "github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/service"
)

// coverFetchConcurrency bounds parallel cover lookups for one response.
const coverFetchConcurrency = 4

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resolveTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/resolve",
		Summary:     "Resolve a title",
		Description: "Resolves free text to one catalog title, or returns the candidate titles when it is ambiguous",
		Tags:        []string{"Recommendations"},
	}, s.handleResolveTitle)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommendSimilar",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/similar",
		Summary:     "Similar books",
		Description: "Recommends books sharing the most genres with a seed book, given by title or by ID",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommendSimilar)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommendByGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/genres",
		Summary:     "Books by genre",
		Description: "Recommends books carrying the most of the selected genres",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommendByGenres)
}

// CandidateResponse is one title suggestion.
type CandidateResponse struct {
	Title string  `json:"title" doc:"Catalog title"`
	Score float64 `json:"score" doc:"Relevance score"`
}

// ResolveTitleInput contains parameters for title resolution.
type ResolveTitleInput struct {
	Query string `query:"q" required:"true" minLength:"1" doc:"Free-text title"`
	Limit int    `query:"limit" doc:"Maximum candidates to return (default and cap: server limit)"`
}

// ResolveTitleResponse is the outcome of a title resolution.
type ResolveTitleResponse struct {
	Query      string              `json:"query" doc:"The text that was resolved"`
	Resolved   bool                `json:"resolved" doc:"Whether exactly one title matched"`
	Exact      bool                `json:"exact" doc:"Whether the match was exact (ignoring case)"`
	Book       *BookResponse       `json:"book,omitempty" doc:"The resolved book"`
	Candidates []CandidateResponse `json:"candidates,omitempty" doc:"Candidate titles when unresolved"`
}

// ResolveTitleOutput wraps the resolution for Huma.
type ResolveTitleOutput struct {
	Body ResolveTitleResponse
}

func (s *Server) handleResolveTitle(ctx context.Context, input *ResolveTitleInput) (*ResolveTitleOutput, error) {
	resp := ResolveTitleResponse{Query: strings.TrimSpace(input.Query)}

	res, err := s.services.Recommend.ResolveTitle(ctx, input.Query)
	switch {
	case err == nil:
		book := toBookResponse(&res.Book)
		resp.Resolved = true
		resp.Exact = res.Exact
		resp.Book = &book
		return &ResolveTitleOutput{Body: resp}, nil
	case domainerrors.Is(err, domainerrors.ErrAmbiguous), domainerrors.Is(err, domainerrors.ErrNotFound):
		suggestions, err := s.services.Recommend.Suggest(ctx, input.Query, input.Limit)
		if err != nil {
			return nil, toAPIError(err)
		}
		resp.Candidates = make([]CandidateResponse, len(suggestions))
		for i, sg := range suggestions {
			resp.Candidates[i] = CandidateResponse{Title: sg.Title, Score: sg.Score}
		}
		return &ResolveTitleOutput{Body: resp}, nil
	default:
		return nil, toAPIError(err)
	}
}

// ResultResponse is one ranked recommendation.
type ResultResponse struct {
	Rank     int          `json:"rank" doc:"1-based position"`
	Score    int          `json:"score" doc:"Genre overlap count"`
	Book     BookResponse `json:"book" doc:"Recommended book"`
	CoverURL string       `json:"cover_url,omitempty" doc:"Cover image, when covers were requested"`
}

// RecommendationResponse is a ranked, deduplicated result list.
type RecommendationResponse struct {
	Mode    string           `json:"mode" enum:"similar,genres" doc:"Recommendation mode"`
	Seed    *BookResponse    `json:"seed,omitempty" doc:"Seed book in similar mode"`
	Genres  []string         `json:"genres,omitempty" doc:"Resolved genre labels in genres mode"`
	TopN    int              `json:"top_n" doc:"Effective result limit"`
	Results []ResultResponse `json:"results" doc:"Results by descending score"`
}

// RecommendationOutput wraps a recommendation for Huma.
type RecommendationOutput struct {
	Body RecommendationResponse
}

// SimilarInput contains parameters for similar-book recommendations.
type SimilarInput struct {
	Title  string `query:"title" doc:"Seed title (free text, resolved against the catalog)"`
	BookID string `query:"book_id" doc:"Seed book ID; takes the place of title"`
	TopN   int    `query:"top_n" doc:"Number of results (0 means the server default)"`
	Covers bool   `query:"covers" doc:"Attach cover image URLs"`
}

func (s *Server) handleRecommendSimilar(ctx context.Context, input *SimilarInput) (*RecommendationOutput, error) {
	title := strings.TrimSpace(input.Title)
	bookID := strings.TrimSpace(input.BookID)

	var (
		rec *service.Recommendation
		err error
	)
	switch {
	case title != "" && bookID != "":
		return nil, toAPIError(domainerrors.InvalidQuery("give either title or book_id, not both"))
	case bookID != "":
		rec, err = s.services.Recommend.SimilarByID(ctx, domain.BookID(bookID), input.TopN)
	case title != "":
		rec, err = s.services.Recommend.SimilarByTitle(ctx, title, input.TopN)
	default:
		return nil, toAPIError(domainerrors.InvalidQuery("a seed title or book_id is required"))
	}
	if err != nil {
		return nil, toAPIError(err)
	}

	return &RecommendationOutput{Body: s.toRecommendationResponse(ctx, rec, input.Covers)}, nil
}

// GenresInput contains parameters for genre recommendations.
type GenresInput struct {
	Genres []string `query:"genres" doc:"Comma-separated genre labels or slugs"`
	TopN   int      `query:"top_n" doc:"Number of results (0 means the server default)"`
	Covers bool     `query:"covers" doc:"Attach cover image URLs"`
}

func (s *Server) handleRecommendByGenres(ctx context.Context, input *GenresInput) (*RecommendationOutput, error) {
	var genres []string
	for _, g := range input.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}

	rec, err := s.services.Recommend.ByGenres(ctx, genres, input.TopN)
	if err != nil {
		return nil, toAPIError(err)
	}

	return &RecommendationOutput{Body: s.toRecommendationResponse(ctx, rec, input.Covers)}, nil
}

func (s *Server) toRecommendationResponse(ctx context.Context, rec *service.Recommendation, covers bool) RecommendationResponse {
	resp := RecommendationResponse{
		Mode:    rec.Mode,
		Genres:  rec.Genres,
		TopN:    rec.TopN,
		Results: make([]ResultResponse, len(rec.Results)),
	}
	if rec.Seed != nil {
		seed := toBookResponse(rec.Seed)
		resp.Seed = &seed
	}
	for i, m := range rec.Results {
		resp.Results[i] = ResultResponse{Rank: i + 1, Score: m.Score, Book: toBookResponse(&m.Book)}
	}

	if covers && s.services.Covers != nil {
		s.attachCovers(ctx, resp.Results)
	}
	return resp
}

// attachCovers fills CoverURL for each result. Cover lookups never fail,
// so the group only bounds concurrency.
func (s *Server) attachCovers(ctx context.Context, results []ResultResponse) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(coverFetchConcurrency)
	for i := range results {
		g.Go(func() error {
			results[i].CoverURL = s.services.Covers.Cover(gctx, results[i].Book.Title).URL
			return nil
		})
	}
	_ = g.Wait()
}
