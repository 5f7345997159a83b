package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit caps suggestions when the caller passes no limit.
const DefaultLimit = 10

// Suggestion is a candidate title for free-text input.
type Suggestion struct {
	Title string  `json:"title"`
	Row   int     `json:"row"`
	Score float64 `json:"score"`
}

// Suggest returns up to limit titles resembling text, best first. Equal
// scores are ordered by catalog row.
func (t *TitleIndex) Suggest(ctx context.Context, text string, limit int) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildTitleQuery(text), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	req.Fields = []string{"title", "row"}

	res, err := t.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := make([]Suggestion, 0, len(res.Hits))
	for _, hit := range res.Hits {
		s := Suggestion{Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			s.Title = title
		}
		if row, ok := hit.Fields["row"].(float64); ok {
			s.Row = int(row)
		}
		out = append(out, s)
	}

	t.logger.Debug("title suggestions", "query", text, "hits", len(out), "total", res.Total)
	return out, nil
}

// buildTitleQuery ORs together, from strongest to weakest:
// a case-insensitive whole-title hit, a word match, a typo-tolerant word
// match and a prefix match on the last word.
func buildTitleQuery(text string) query.Query {
	lower := strings.ToLower(text)

	exact := bleve.NewTermQuery(lower)
	exact.SetField("title_key")
	exact.SetBoost(10.0)

	match := bleve.NewMatchQuery(text)
	match.SetField("title")
	match.SetBoost(3.0)

	fuzzy := bleve.NewMatchQuery(text)
	fuzzy.SetField("title")
	fuzzy.SetFuzziness(1)
	fuzzy.SetBoost(0.8)

	queries := []query.Query{exact, match, fuzzy}

	words := strings.Fields(lower)
	if last := words[len(words)-1]; len(last) >= 2 {
		prefix := bleve.NewPrefixQuery(last)
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
