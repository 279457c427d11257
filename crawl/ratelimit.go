package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/spider"
	"golang.org/x/time/rate"
)

var (
	_ spider.DomainLimiter = (*DomainLimiter)(nil)
	_ spider.Fetcher       = (*LimitedFetcher)(nil)
)

// DomainLimiter provides per-domain rate limiting using token buckets.
// It creates a separate rate limiter for each domain, allowing concurrent
// requests to different domains while enforcing rate limits within each domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests per second limit.
// Each domain gets its own limiter with a burst of 1 (no bursting allowed).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
	}
}

// NewDomainDelay creates a DomainLimiter that spaces requests to the same
// domain at least d apart.
func NewDomainDelay(d time.Duration) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(d),
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// LimitedFetcher waits on a DomainLimiter keyed by the URI host before
// delegating to the wrapped Fetcher.
type LimitedFetcher struct {
	Fetcher spider.Fetcher
	Limiter spider.DomainLimiter
}

// Fetch waits for the host's rate limit and then fetches uri.
func (f *LimitedFetcher) Fetch(ctx context.Context, uri spider.URI) (*spider.Resource, error) {
	if err := f.Limiter.Wait(ctx, uri.Host()); err != nil {
		return nil, err
	}
	return f.Fetcher.Fetch(ctx, uri)
}
