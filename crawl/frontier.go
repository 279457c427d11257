package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/spider"
)

// Compile-time interface verification.
var _ spider.Frontier = (*Frontier)(nil)

// Frontier is an in-memory queue of pending URIs. Breadth-first traversal
// yields URIs in FIFO order and depth-first traversal in LIFO order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu        sync.Mutex
	maxDepth  int
	maxSize   int
	traversal spider.Traversal
	queue     []spider.URI
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithTraversal sets the ordering policy. Defaults to breadth-first.
func WithTraversal(t spider.Traversal) FrontierOption {
	return func(f *Frontier) {
		f.traversal = t
	}
}

// WithMaxSize bounds the number of pending URIs. Zero means unbounded.
func WithMaxSize(n int) FrontierOption {
	return func(f *Frontier) {
		f.maxSize = n
	}
}

// NewFrontier creates a Frontier that accepts URIs up to maxDepth.
func NewFrontier(maxDepth int, opts ...FrontierOption) *Frontier {
	f := &Frontier{maxDepth: maxDepth}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Push enqueues uri at depth.
func (f *Frontier) Push(_ context.Context, uri spider.URI, depth int) error {
	if depth < 0 || depth > f.maxDepth {
		return spider.Errorf(spider.EINVALID, "depth %d outside frontier bound %d", depth, f.maxDepth)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxSize > 0 && len(f.queue) >= f.maxSize {
		return spider.Errorf(spider.EQUEUEFULL, "maximum queue size of %d reached", f.maxSize)
	}
	f.queue = append(f.queue, uri)
	return nil
}

// Pop returns the next URI according to the traversal order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop(_ context.Context) (spider.URI, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.queue)
	if n == 0 {
		return spider.URI{}, false, nil
	}

	var uri spider.URI
	if f.traversal == spider.DepthFirst {
		uri = f.queue[n-1]
		f.queue = f.queue[:n-1]
	} else {
		uri = f.queue[0]
		f.queue[0] = spider.URI{}
		f.queue = f.queue[1:]
	}
	return uri, true, nil
}

// MaxDepth returns the deepest depth the frontier accepts.
func (f *Frontier) MaxDepth() int {
	return f.maxDepth
}

// Len returns the number of pending URIs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
