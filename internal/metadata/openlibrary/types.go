// Package openlibrary provides a client for looking up book covers on Open Library.
package openlibrary

// SearchResult is one Open Library work matching a title search.
type SearchResult struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	CoverID int64    `json:"cover_id,omitempty"` // 0 when the work has no cover
}

// searchResponse is the raw search.json response.
type searchResponse struct {
	NumFound int        `json:"numFound"`
	Docs     []document `json:"docs"`
}

// document is a single work from search.json.
type document struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	CoverI     int64    `json:"cover_i"`
}
