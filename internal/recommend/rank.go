package recommend

import (
	"cmp"
	"slices"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

// Match is one ranked result.
type Match struct {
	Book  domain.Book `json:"book"`
	Score int         `json:"score"`
	Row   int         `json:"row"`
}

// Rank orders rows by descending score, ties by ascending row index, and
// keeps the first row seen for each title until topN titles are collected.
// Fewer than topN results means the catalog ran out of distinct titles.
func Rank(scores []int, books []domain.Book, topN int) ([]Match, error) {
	if topN < 1 {
		return nil, errors.InvalidQueryf("top_n must be at least 1, got %d", topN)
	}
	if len(scores) != len(books) {
		return nil, errors.InvalidQueryf("score vector has %d entries for %d books", len(scores), len(books))
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	emitted := make(map[string]struct{}, topN)
	out := make([]Match, 0, min(topN, len(order)))
	for _, i := range order {
		if len(out) == topN {
			break
		}
		title := books[i].Title
		if _, dup := emitted[title]; dup {
			continue
		}
		emitted[title] = struct{}{}
		b := books[i]
		b.Genres = slices.Clone(b.Genres)
		out = append(out, Match{Book: b, Score: scores[i], Row: i})
	}
	return out, nil
}
