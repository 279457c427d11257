package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/spider"
)

var _ spider.Fetcher = (*RetryFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFetcher wraps a Fetcher and retries failed fetches with backoff.
// It makes len(Delays)+1 attempts in total.
type RetryFetcher struct {
	Fetcher spider.Fetcher
	Delays  []time.Duration

	// OnRetry, if set, is called before each retry with the attempt number
	// (starting at 2) and the error of the previous attempt.
	OnRetry func(uri spider.URI, attempt int, err error)
}

// NewRetryFetcher wraps f with the default retry delays.
func NewRetryFetcher(f spider.Fetcher) *RetryFetcher {
	return &RetryFetcher{Fetcher: f, Delays: DefaultRetryDelays()}
}

// Fetch attempts to fetch uri, retrying on error until the delays are
// exhausted or ctx is done.
func (r *RetryFetcher) Fetch(ctx context.Context, uri spider.URI) (*spider.Resource, error) {
	maxAttempts := len(r.Delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := r.Fetcher.Fetch(ctx, uri)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if r.OnRetry != nil {
			r.OnRetry(uri, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Delays[attempt]):
		}
	}

	return nil, lastErr
}
