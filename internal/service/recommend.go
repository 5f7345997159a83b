package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/genre"
	"github.com/listenupapp/bookrec/internal/metrics"
	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/search"
)

// Recommendation modes.
const (
	ModeSimilar = "similar"
	ModeGenres  = "genres"
)

// RecommendConfig holds the front-end limits.
type RecommendConfig struct {
	DefaultTopN   int
	MaxTopN       int
	MaxCandidates int
}

// DefaultRecommendConfig returns the defaults used by the original app.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{DefaultTopN: 10, MaxTopN: 50, MaxCandidates: 10}
}

// RecommendService translates title and genre queries into recommender
// calls. It holds no mutable state.
type RecommendService struct {
	rec    *recommend.Recommender
	titles *search.TitleIndex
	genres *genre.Index
	cfg    RecommendConfig
	logger *slog.Logger
}

// NewRecommendService creates a new recommend service.
func NewRecommendService(
	rec *recommend.Recommender,
	titles *search.TitleIndex,
	cfg RecommendConfig,
	logger *slog.Logger,
) *RecommendService {
	defaults := DefaultRecommendConfig()
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = defaults.DefaultTopN
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = defaults.MaxTopN
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaults.MaxCandidates
	}
	return &RecommendService{
		rec:    rec,
		titles: titles,
		genres: genre.NewIndex(rec.Vocabulary().Labels()),
		cfg:    cfg,
		logger: logger,
	}
}

// Recommendation is the result of one query.
type Recommendation struct {
	Mode    string            `json:"mode"`
	Seed    *domain.Book      `json:"seed,omitempty"`
	Genres  []string          `json:"genres,omitempty"`
	TopN    int               `json:"top_n"`
	Results []recommend.Match `json:"results"`
}

// Resolution is the outcome of resolving free text to one catalog title.
type Resolution struct {
	Query string      `json:"query"`
	Book  domain.Book `json:"book"`
	Exact bool        `json:"exact"`
}

// SimilarByTitle resolves text to a single title and recommends books
// similar to it.
func (s *RecommendService) SimilarByTitle(ctx context.Context, text string, topN int) (*Recommendation, error) {
	res, err := s.ResolveTitle(ctx, text)
	if err != nil {
		s.record(ModeSimilar, err, 0)
		return nil, err
	}
	return s.similar(res.Book.Position, topN)
}

// SimilarByID recommends books similar to the book with the given ID.
func (s *RecommendService) SimilarByID(_ context.Context, bookID domain.BookID, topN int) (*Recommendation, error) {
	idx, ok := s.rec.Catalog().IndexOfID(bookID)
	if !ok {
		err := errors.NotFoundf("book %q not found", bookID)
		s.record(ModeSimilar, err, 0)
		return nil, err
	}
	return s.similar(idx, topN)
}

func (s *RecommendService) similar(idx, topN int) (*Recommendation, error) {
	start := time.Now()

	n, err := s.topN(topN)
	if err != nil {
		s.record(ModeSimilar, err, 0)
		return nil, err
	}

	matches, err := s.rec.SimilarToRow(idx, n)
	s.record(ModeSimilar, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	seed, _ := s.rec.Catalog().Book(idx)
	s.logger.Debug("similar books",
		"book_id", seed.ID,
		"title", seed.Title,
		"top_n", n,
		"results", len(matches),
	)
	return &Recommendation{Mode: ModeSimilar, Seed: &seed, TopN: n, Results: matches}, nil
}

// ByGenres recommends books carrying the most of the given genres. Inputs
// may be labels, slugs or known aliases; anything else is rejected.
func (s *RecommendService) ByGenres(_ context.Context, inputs []string, topN int) (*Recommendation, error) {
	start := time.Now()

	n, err := s.topN(topN)
	if err != nil {
		s.record(ModeGenres, err, 0)
		return nil, err
	}

	labels, unknown := s.genres.ResolveAll(inputs)
	if len(unknown) > 0 {
		err := errors.InvalidQueryf("unknown genres: %s", strings.Join(unknown, ", ")).
			WithDetails(map[string]any{"unknown": unknown})
		s.record(ModeGenres, err, 0)
		return nil, err
	}
	if len(labels) == 0 {
		err := errors.InvalidQuery("at least one genre must be selected")
		s.record(ModeGenres, err, 0)
		return nil, err
	}

	matches, err := s.rec.ByGenres(labels, n)
	s.record(ModeGenres, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("books by genre", "genres", labels, "top_n", n, "results", len(matches))
	return &Recommendation{Mode: ModeGenres, Genres: labels, TopN: n, Results: matches}, nil
}

// ResolveTitle maps free text to exactly one catalog title. An exact title
// wins, then a unique case-insensitive match, then a sole fuzzy candidate.
// Several candidates are an ambiguity error carrying the candidate titles.
func (s *RecommendService) ResolveTitle(ctx context.Context, text string) (*Resolution, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.InvalidQuery("title must not be empty")
	}

	cat := s.rec.Catalog()
	if idx, ok := cat.IndexOfTitle(text); ok {
		metrics.RecordTitleResolution("exact")
		book, _ := cat.Book(idx)
		return &Resolution{Query: text, Book: book, Exact: true}, nil
	}

	suggestions, err := s.titles.Suggest(ctx, text, s.cfg.MaxCandidates)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "search titles")
	}

	var folded []search.Suggestion
	for _, sg := range suggestions {
		if strings.EqualFold(sg.Title, text) {
			folded = append(folded, sg)
		}
	}

	switch {
	case len(folded) == 1:
		metrics.RecordTitleResolution("exact")
		book, _ := cat.Book(folded[0].Row)
		return &Resolution{Query: text, Book: book, Exact: true}, nil
	case len(suggestions) == 1:
		metrics.RecordTitleResolution("fuzzy")
		book, _ := cat.Book(suggestions[0].Row)
		return &Resolution{Query: text, Book: book}, nil
	case len(suggestions) == 0:
		metrics.RecordTitleResolution("none")
		return nil, errors.NotFoundf("no title matches %q", text)
	default:
		metrics.RecordTitleResolution("ambiguous")
		candidates := make([]string, len(suggestions))
		for i, sg := range suggestions {
			candidates[i] = sg.Title
		}
		return nil, errors.Ambiguous(fmt.Sprintf("several titles match %q; pick one", text), candidates)
	}
}

// Suggest returns candidate titles for free text, for autocomplete.
func (s *RecommendService) Suggest(ctx context.Context, text string, limit int) ([]search.Suggestion, error) {
	if limit <= 0 || limit > s.cfg.MaxCandidates {
		limit = s.cfg.MaxCandidates
	}
	suggestions, err := s.titles.Suggest(ctx, text, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "search titles")
	}
	return suggestions, nil
}

// IndexedTitles reports how many titles the resolver holds.
func (s *RecommendService) IndexedTitles() (uint64, error) {
	return s.titles.DocumentCount()
}

// Book returns one catalog book by ID.
func (s *RecommendService) Book(bookID domain.BookID) (*domain.Book, error) {
	cat := s.rec.Catalog()
	idx, ok := cat.IndexOfID(bookID)
	if !ok {
		return nil, errors.NotFoundf("book %q not found", bookID)
	}
	book, _ := cat.Book(idx)
	return &book, nil
}

// Genres lists the vocabulary with slugs, in column order.
func (s *RecommendService) Genres() []genre.Entry {
	return s.genres.Entries()
}

// GenreCounts returns how many books carry each vocabulary label.
func (s *RecommendService) GenreCounts() map[string]int {
	counts := make(map[string]int, s.rec.Vocabulary().Len())
	for _, book := range s.rec.Catalog().Books() {
		for _, label := range book.DisplayGenres() {
			counts[label]++
		}
	}
	return counts
}

// Summary describes the loaded catalog.
type Summary struct {
	Version         string `json:"version"`
	Books           int    `json:"books"`
	DistinctTitles  int    `json:"distinct_titles"`
	DuplicateTitles int    `json:"duplicate_titles"`
	Genres          int    `json:"genres"`
}

// Summary returns the size of the loaded catalog.
func (s *RecommendService) Summary() Summary {
	cat := s.rec.Catalog()
	return Summary{
		Version:         cat.Version(),
		Books:           cat.Len(),
		DistinctTitles:  cat.Len() - cat.DuplicateTitles(),
		DuplicateTitles: cat.DuplicateTitles(),
		Genres:          s.rec.Vocabulary().Len(),
	}
}

// Limits returns the configured front-end limits.
func (s *RecommendService) Limits() RecommendConfig {
	return s.cfg
}

// topN applies the default for zero and clamps to the configured maximum.
func (s *RecommendService) topN(n int) (int, error) {
	switch {
	case n == 0:
		return s.cfg.DefaultTopN, nil
	case n < 0:
		return 0, errors.InvalidQueryf("top_n must be at least 1, got %d", n)
	case n > s.cfg.MaxTopN:
		return s.cfg.MaxTopN, nil
	}
	return n, nil
}

func (s *RecommendService) record(mode string, err error, d time.Duration) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrInvalidQuery):
		outcome = "invalid"
	case errors.Is(err, errors.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, errors.ErrAmbiguous):
		outcome = "ambiguous"
	default:
		outcome = "error"
	}
	metrics.RecordRecommendation(mode, outcome, d)
}
