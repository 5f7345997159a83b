package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

const defaultLimit = 5

// SearchByTitle searches Open Library works by title, in relevance order.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]SearchResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, wrapError("search", title, ErrNotFound)
	}

	if err := c.wait(ctx); err != nil {
		return nil, wrapError("search", title, fmt.Errorf("rate limit: %w", err))
	}

	params := url.Values{}
	params.Set("title", title)
	params.Set("fields", "key,title,author_name,cover_i")
	params.Set("limit", fmt.Sprintf("%d", defaultLimit))

	searchURL := c.searchURL + "?" + params.Encode()

	c.logger.Debug("searching Open Library",
		"title", title,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, wrapError("search", title, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError("search", title, fmt.Errorf("search request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, wrapError("search", title, ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, wrapError("search", title, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, wrapError("search", title, fmt.Errorf("search failed: status %d", resp.StatusCode))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, wrapError("search", title, fmt.Errorf("%w: %v", ErrBadResponse, err))
	}

	c.logger.Debug("Open Library search results",
		"title", title,
		"found", searchResp.NumFound,
	)

	results := make([]SearchResult, 0, len(searchResp.Docs))
	for _, d := range searchResp.Docs {
		results = append(results, SearchResult{
			Key:     d.Key,
			Title:   d.Title,
			Authors: d.AuthorName,
			CoverID: d.CoverI,
		})
	}
	return results, nil
}

// CoverURL returns the image URL for the first search result of title.
// A first result without a cover is ErrNoCover; no results is ErrNotFound.
func (c *Client) CoverURL(ctx context.Context, title string) (string, int64, error) {
	results, err := c.SearchByTitle(ctx, title)
	if err != nil {
		return "", 0, err
	}
	if len(results) == 0 {
		return "", 0, wrapError("cover", title, ErrNotFound)
	}

	coverID := results[0].CoverID
	if coverID <= 0 {
		return "", 0, wrapError("cover", title, ErrNoCover)
	}
	return c.ImageURL(coverID), coverID, nil
}

// ImageURL formats the medium-size image URL for a cover ID.
func (c *Client) ImageURL(coverID int64) string {
	return fmt.Sprintf(c.imageURL, coverID)
}
