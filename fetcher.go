package spider

import "context"

// Fetcher retrieves the resource at a URI.
type Fetcher interface {
	// Fetch retrieves uri. Any network or protocol failure is returned as
	// an error; the crawl engine treats it as a skipped URI, never as fatal.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, uri URI) (*Resource, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri URI) (*Resource, error)

// Fetch calls fn(ctx, uri).
func (fn FetcherFunc) Fetch(ctx context.Context, uri URI) (*Resource, error) {
	return fn(ctx, uri)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
