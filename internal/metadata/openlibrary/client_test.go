package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchFixture = `{
  "numFound": 2,
  "docs": [
    {"key": "/works/OL262758W", "title": "The Hobbit", "author_name": ["J.R.R. Tolkien"], "cover_i": 14627509},
    {"key": "/works/OL1W", "title": "The Hobbit Companion"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := NewClient(Config{
		SearchURL: server.URL + "/search.json",
		ImageURL:  "https://covers.example/b/id/%d-M.jpg",
		RPS:       1000,
		Burst:     100,
	}, logger)
	t.Cleanup(client.Close)
	return client
}

func TestClient_SearchByTitle(t *testing.T) {
	var gotTitle string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.URL.Query().Get("title")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture))
	})

	results, err := client.SearchByTitle(context.Background(), " The Hobbit ")
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", gotTitle)
	require.Len(t, results, 2)
	assert.Equal(t, int64(14627509), results[0].CoverID)
	assert.Equal(t, []string{"J.R.R. Tolkien"}, results[0].Authors)
	assert.Zero(t, results[1].CoverID)
}

func TestClient_CoverURL(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantURL    string
		wantErr    error
	}{
		{
			name:       "first result has cover",
			statusCode: http.StatusOK,
			body:       searchFixture,
			wantURL:    "https://covers.example/b/id/14627509-M.jpg",
		},
		{
			name:       "first result without cover",
			statusCode: http.StatusOK,
			body:       `{"numFound": 1, "docs": [{"title": "X"}]}`,
			wantErr:    ErrNoCover,
		},
		{
			name:       "no results",
			statusCode: http.StatusOK,
			body:       `{"numFound": 0, "docs": []}`,
			wantErr:    ErrNotFound,
		},
		{
			name:       "malformed body",
			statusCode: http.StatusOK,
			body:       `{"docs": [`,
			wantErr:    ErrBadResponse,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
		},
		{
			name:       "server error",
			statusCode: http.StatusBadGateway,
			wantErr:    ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			})

			url, _, err := client.CoverURL(context.Background(), "The Hobbit")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				var olErr *Error
				assert.ErrorAs(t, err, &olErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

func TestClient_EmptyTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.SearchByTitle(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_CanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchFixture))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := client.CoverURL(ctx, "The Hobbit")
	assert.Error(t, err)
}
