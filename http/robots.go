package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/spider"
	"github.com/temoto/robotstxt"
)

var _ spider.PreFilter = (*RobotsFilter)(nil)

// RobotsFilter rejects URIs disallowed by the host's robots.txt for the
// configured user agent. robots.txt is fetched once per scheme and host
// and cached for the life of the filter. Hosts whose robots.txt cannot be
// fetched are treated as allowing everything.
type RobotsFilter struct {
	userAgent string
	client    *http.Client

	mu    sync.RWMutex
	cache map[string]*robotstxt.RobotsData
}

// NewRobotsFilter creates a RobotsFilter that evaluates rules for userAgent.
func NewRobotsFilter(userAgent string, timeout time.Duration) *RobotsFilter {
	return &RobotsFilter{
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// MatchURI returns true if robots.txt disallows uri.
func (r *RobotsFilter) MatchURI(uri spider.URI) bool {
	data := r.robots(uri)
	if data == nil {
		return false
	}
	u := uri.URL()
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return !data.TestAgent(path, r.userAgent)
}

// Sitemaps returns the Sitemap directives of the robots.txt governing uri.
func (r *RobotsFilter) Sitemaps(uri spider.URI) []string {
	data := r.robots(uri)
	if data == nil {
		return nil
	}
	return data.Sitemaps
}

func (r *RobotsFilter) robots(uri spider.URI) *robotstxt.RobotsData {
	key := uri.Scheme() + "://" + uri.Host()

	r.mu.RLock()
	data, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return data
	}

	data = r.fetch(key + "/robots.txt")

	r.mu.Lock()
	r.cache[key] = data
	r.mu.Unlock()
	return data
}

func (r *RobotsFilter) fetch(robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	// FromResponse maps 4xx to allow-all and 5xx to disallow-all.
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}
