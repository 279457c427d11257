package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/spider"
	spiderhttp "github.com/fwojciec/spider/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and metadata from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := spiderhttp.NewFetcher()
		defer fetcher.Close()

		uri := spider.MustParseURI(server.URL)
		res, err := fetcher.Fetch(context.Background(), uri)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", string(res.Body))
		assert.Equal(t, uri, res.URI)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "text/html", res.ContentType)
		assert.False(t, res.FetchedAt.IsZero())
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var ua string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.UserAgent()
		}))
		defer server.Close()

		fetcher := spiderhttp.NewFetcher(spiderhttp.WithUserAgent("test-bot/2.0"))
		_, err := fetcher.Fetch(context.Background(), spider.MustParseURI(server.URL))

		require.NoError(t, err)
		assert.Equal(t, "test-bot/2.0", ua)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := spiderhttp.NewFetcher(spiderhttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), spider.MustParseURI(server.URL))
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := spiderhttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, spider.MustParseURI(server.URL))
		require.Error(t, err)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := spiderhttp.NewFetcher(spiderhttp.WithTimeout(100 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), spider.MustParseURI("http://non-existent-host.invalid/page"))
		require.Error(t, err)
	})

	t.Run("returns error for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		fetcher := spiderhttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), spider.MustParseURI(server.URL))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("returns error when the body exceeds the size cap", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		fetcher := spiderhttp.NewFetcher(spiderhttp.WithMaxBodySize(10))

		_, err := fetcher.Fetch(context.Background(), spider.MustParseURI(server.URL))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds 10 bytes")
	})
}

// Compile-time verification that Fetcher implements spider.Fetcher
var _ spider.Fetcher = (*spiderhttp.Fetcher)(nil)
