// Package prometheus exposes crawl events as Prometheus metrics.
package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/spider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ensure Metrics implements spider.Notifier at compile time.
var _ spider.Notifier = (*Metrics)(nil)

// Metrics is a notifier that counts crawl events and measures request
// duration from each pre-request event to its matching post-request.
type Metrics struct {
	registry *prometheus.Registry

	events        *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	depth         prometheus.Histogram

	mu       sync.Mutex
	inflight map[spider.URI]time.Time
}

// Option configures Metrics.
type Option func(*Metrics)

// WithQueueLength reports the frontier length through fn at scrape time.
func WithQueueLength(fn func() int) Option {
	return func(m *Metrics) {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "spider_frontier_length",
				Help: "Current number of URIs waiting in the frontier",
			},
			func() float64 { return float64(fn()) },
		))
	}
}

// NewMetrics creates Metrics on a private registry.
func NewMetrics(opts ...Option) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spider_events_total",
				Help: "Total number of crawl events by type",
			},
			[]string{"type"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spider_fetch_duration_seconds",
				Help:    "Time taken to fetch a resource",
				Buckets: prometheus.DefBuckets,
			},
		),
		depth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spider_persisted_depth",
				Help:    "Discovery depth of persisted resources",
				Buckets: prometheus.LinearBuckets(0, 1, 10),
			},
		),
		inflight: make(map[spider.URI]time.Time),
	}
	m.registry.MustRegister(m.events, m.fetchDuration, m.depth)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Notify records e.
func (m *Metrics) Notify(e spider.Event) {
	m.events.WithLabelValues(string(e.Type)).Inc()

	switch e.Type {
	case spider.EventPreRequest:
		m.mu.Lock()
		m.inflight[e.URI] = e.Time
		m.mu.Unlock()
	case spider.EventPostRequest:
		m.mu.Lock()
		begin, ok := m.inflight[e.URI]
		delete(m.inflight, e.URI)
		m.mu.Unlock()
		if ok {
			m.fetchDuration.Observe(e.Time.Sub(begin).Seconds())
		}
	case spider.EventResourcePersisted:
		m.depth.Observe(float64(e.Depth))
	}
}

// Handler returns an HTTP handler serving the metrics in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
