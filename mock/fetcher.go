package mock

import (
	"context"

	"github.com/fwojciec/spider"
)

var _ spider.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of spider.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, uri spider.URI) (*spider.Resource, error)
}

func (f *Fetcher) Fetch(ctx context.Context, uri spider.URI) (*spider.Resource, error) {
	return f.FetchFn(ctx, uri)
}
