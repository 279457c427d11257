package mock

import (
	"context"

	"github.com/fwojciec/spider"
)

var _ spider.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of spider.Frontier.
type Frontier struct {
	PushFn     func(ctx context.Context, uri spider.URI, depth int) error
	PopFn      func(ctx context.Context) (spider.URI, bool, error)
	MaxDepthFn func() int
}

func (f *Frontier) Push(ctx context.Context, uri spider.URI, depth int) error {
	return f.PushFn(ctx, uri, depth)
}

func (f *Frontier) Pop(ctx context.Context) (spider.URI, bool, error) {
	return f.PopFn(ctx)
}

func (f *Frontier) MaxDepth() int {
	return f.MaxDepthFn()
}

var _ spider.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of spider.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
