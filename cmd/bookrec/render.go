package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/search"
	"github.com/listenupapp/bookrec/internal/service"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResults prints one block per match:
//
//	1. The Lord of the Rings by J.R.R. Tolkien
//	   4.50 avg, 600,000 ratings, 3 shared genres
//	   [Adventure] [Classics] [Fantasy]
func renderResults(w io.Writer, matches []recommend.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return
	}
	for i, m := range matches {
		line := fmt.Sprintf("%d. %s", i+1, m.Book.Title)
		if m.Book.Author != "" {
			line += " by " + m.Book.Author
		}
		fmt.Fprintln(w, line)
		printer.Fprintf(w, "   %.2f avg, %d ratings, %d shared %s\n",
			m.Book.AvgRating, m.Book.NumRatings, m.Score, plural(m.Score, "genre", "genres"))
		fmt.Fprintf(w, "   %s\n", badges(m.Book.DisplayGenres()))
		if m.Book.URL != "" {
			fmt.Fprintf(w, "   %s\n", m.Book.URL)
		}
	}
}

func badges(genres []string) string {
	parts := make([]string, len(genres))
	for i, g := range genres {
		parts[i] = "[" + g + "]"
	}
	return strings.Join(parts, " ")
}

func renderSuggestions(w io.Writer, query string, suggestions []search.Suggestion) {
	fmt.Fprintf(w, "Titles matching %q:\n", query)
	for _, sg := range suggestions {
		fmt.Fprintf(w, "  - %s\n", sg.Title)
	}
}

func renderImport(w io.Writer, result *service.ImportResult) {
	info := result.Info
	printer.Fprintf(w, "Imported %d books with %d genres from %s\n", info.BookCount, info.GenreCount, info.Source)
	fmt.Fprintf(w, "Catalog version %s\n", info.Version)
	if n := len(result.Skipped); n > 0 {
		printer.Fprintf(w, "Skipped %d %s:\n", n, plural(n, "row", "rows"))
		for _, skipped := range result.Skipped {
			fmt.Fprintf(w, "  line %d: %v\n", skipped.Line, skipped.Err)
		}
	}
}

// renderGenreCounts prints genres by descending count, then by label.
func renderGenreCounts(w io.Writer, counts map[string]int) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	slices.SortFunc(labels, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})
	for _, label := range labels {
		printer.Fprintf(w, "%8d  %s\n", counts[label], label)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
