package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
	"github.com/listenupapp/bookrec/internal/id"
	"github.com/listenupapp/bookrec/internal/validation"
)

// Column header aliases, matched case-insensitively.
var columnAliases = map[string][]string{
	"title":       {"book", "title"},
	"author":      {"author"},
	"avg_rating":  {"avg_rating", "average_rating", "rating"},
	"num_ratings": {"num_ratings", "ratings_count", "ratings"},
	"genres":      {"genres", "genre"},
	"url":         {"url", "link"},
}

// quotedItem matches one single- or double-quoted element of a list literal.
var quotedItem = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)"`)

// RowError records a CSV row that was skipped during parsing.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ParseResult is the outcome of reading a catalog export.
type ParseResult struct {
	Books   []domain.Book
	Skipped []RowError
}

// ParseCSV reads a catalog export. Each accepted row gets a fresh BookID and
// its position in the output. Rows that fail validation are skipped and
// reported; a file with no usable rows is a load error.
func ParseCSV(r io.Reader, v *validation.Validator) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLoad, "read catalog header")
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}

		book, err := parseRecord(record, cols)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}

		bookID, err := id.NewBookID()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "assign book id")
		}
		book.ID = bookID
		book.Position = len(result.Books)

		if err := v.Validate(book); err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}

		result.Books = append(result.Books, book)
	}

	if len(result.Books) == 0 {
		return nil, errors.Loadf("catalog export has no usable rows (%d skipped)", len(result.Skipped))
	}

	return result, nil
}

// mapColumns resolves header positions for every known column.
// Title and genres are required.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(columnAliases))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		for name, aliases := range columnAliases {
			if _, done := cols[name]; done {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					cols[name] = i
					break
				}
			}
		}
	}

	for _, required := range []string{"title", "genres"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Loadf("catalog export is missing the %s column", required)
		}
	}
	return cols, nil
}

func parseRecord(record []string, cols map[string]int) (domain.Book, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	book := domain.Book{
		Title:  field("title"),
		Author: field("author"),
		URL:    field("url"),
		Genres: ParseGenreList(field("genres")),
	}

	if raw := field("avg_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return book, fmt.Errorf("avg_rating %q: %w", raw, err)
		}
		book.AvgRating = rating
	}

	if raw := strings.ReplaceAll(field("num_ratings"), ",", ""); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return book, fmt.Errorf("num_ratings %q: %w", raw, err)
		}
		book.NumRatings = n
	}

	return book, nil
}

// ParseGenreList parses a genre cell. It accepts list literals in either
// quoting style ("['Fantasy', 'Fiction']" or `["Fantasy"]`) and falls back to
// a comma-separated list, bracketed or not. Order and duplicates are preserved.
func ParseGenreList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return []string{}
	}

	if strings.HasPrefix(raw, "[") {
		matches := quotedItem.FindAllStringSubmatch(raw, -1)
		if len(matches) == 0 {
			// [Fantasy, Fiction]: bracketed but unquoted.
			return ParseGenreList(strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]"))
		}
		genres := make([]string, 0, len(matches))
		for _, m := range matches {
			item := m[1]
			if item == "" {
				item = m[2]
			}
			item = strings.TrimSpace(unescape(item))
			if item != "" {
				genres = append(genres, item)
			}
		}
		return genres
	}

	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`).Replace(s)
}
