package prometheus_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/spider"
	spiderprom "github.com/fwojciec/spider/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *spiderprom.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Notify(t *testing.T) {
	t.Parallel()

	t.Run("counts events by type", func(t *testing.T) {
		t.Parallel()

		m := spiderprom.NewMetrics()
		uri := spider.MustParseURI("https://example.com/")
		m.Notify(spider.Event{Type: spider.EventResourcePersisted, URI: uri})
		m.Notify(spider.Event{Type: spider.EventResourcePersisted, URI: uri, Depth: 1})
		m.Notify(spider.Event{Type: spider.EventFilteredPreFetch, URI: uri})

		body := scrape(t, m)

		assert.Contains(t, body, `spider_events_total{type="resource-persisted"} 2`)
		assert.Contains(t, body, `spider_events_total{type="filtered-pre-fetch"} 1`)
		assert.Contains(t, body, "spider_persisted_depth_count 2")
	})

	t.Run("observes fetch duration between pre and post request", func(t *testing.T) {
		t.Parallel()

		m := spiderprom.NewMetrics()
		uri := spider.MustParseURI("https://example.com/")
		begin := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		m.Notify(spider.Event{Type: spider.EventPreRequest, URI: uri, Time: begin})
		m.Notify(spider.Event{Type: spider.EventPostRequest, URI: uri, Time: begin.Add(2 * time.Second)})

		body := scrape(t, m)

		assert.Contains(t, body, "spider_fetch_duration_seconds_count 1")
		assert.Contains(t, body, "spider_fetch_duration_seconds_sum 2")
	})

	t.Run("ignores post request without matching pre request", func(t *testing.T) {
		t.Parallel()

		m := spiderprom.NewMetrics()
		m.Notify(spider.Event{Type: spider.EventPostRequest, URI: spider.MustParseURI("https://example.com/")})

		assert.Contains(t, scrape(t, m), "spider_fetch_duration_seconds_count 0")
	})
}

func TestMetrics_WithQueueLength(t *testing.T) {
	t.Parallel()

	m := spiderprom.NewMetrics(spiderprom.WithQueueLength(func() int { return 42 }))

	assert.Contains(t, scrape(t, m), "spider_frontier_length 42")
}
