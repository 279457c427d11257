// Package redis provides a spider.Frontier stored in a Redis list, so a
// crawl's pending queue survives process restarts and can be inspected
// from outside the crawler.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/spider"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the list key used when no key is configured.
const DefaultKey = "spider:frontier"

// Ensure Frontier implements spider.Frontier at compile time.
var _ spider.Frontier = (*Frontier)(nil)

// pushScript appends ARGV[1] unless the list already holds ARGV[2]
// entries. A non-positive ARGV[2] means unbounded.
var pushScript = redis.NewScript(`
local max = tonumber(ARGV[2])
if max > 0 and redis.call('LLEN', KEYS[1]) >= max then
	return -1
end
return redis.call('RPUSH', KEYS[1], ARGV[1])
`)

type entry struct {
	URI   string `json:"uri"`
	Depth int    `json:"depth"`
}

// Frontier is a Redis-backed frontier. Entries are pushed to the tail of
// the list; breadth-first pops from the head and depth-first from the tail.
type Frontier struct {
	client    redis.Cmdable
	key       string
	maxDepth  int
	maxSize   int
	traversal spider.Traversal
}

// Option configures a Frontier.
type Option func(*Frontier)

// WithKey sets the list key.
func WithKey(key string) Option {
	return func(f *Frontier) {
		f.key = key
	}
}

// WithTraversal sets the pop order. Defaults to breadth-first.
func WithTraversal(t spider.Traversal) Option {
	return func(f *Frontier) {
		f.traversal = t
	}
}

// WithMaxSize bounds the number of pending entries. Zero means unbounded.
func WithMaxSize(n int) Option {
	return func(f *Frontier) {
		f.maxSize = n
	}
}

// NewFrontier creates a Frontier on client accepting depths up to maxDepth.
func NewFrontier(client redis.Cmdable, maxDepth int, opts ...Option) *Frontier {
	f := &Frontier{
		client:   client,
		key:      DefaultKey,
		maxDepth: maxDepth,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MaxDepth returns the deepest depth Push accepts.
func (f *Frontier) MaxDepth() int {
	return f.maxDepth
}

// Push appends uri at depth. It returns EINVALID for a depth outside
// [0, MaxDepth] and EQUEUEFULL when the list is at its maximum size.
func (f *Frontier) Push(ctx context.Context, uri spider.URI, depth int) error {
	if depth < 0 || depth > f.maxDepth {
		return spider.Errorf(spider.EINVALID, "depth %d outside [0, %d]", depth, f.maxDepth)
	}

	data, err := json.Marshal(entry{URI: uri.String(), Depth: depth})
	if err != nil {
		return err
	}

	n, err := pushScript.Run(ctx, f.client, []string{f.key}, data, f.maxSize).Int64()
	if err != nil {
		return fmt.Errorf("push %s: %w", uri, err)
	}
	if n < 0 {
		return spider.Errorf(spider.EQUEUEFULL, "maximum queue size of %d reached", f.maxSize)
	}
	return nil
}

// Pop removes the next URI. It reports false when the list is empty.
func (f *Frontier) Pop(ctx context.Context) (spider.URI, bool, error) {
	var cmd *redis.StringCmd
	if f.traversal == spider.DepthFirst {
		cmd = f.client.RPop(ctx, f.key)
	} else {
		cmd = f.client.LPop(ctx, f.key)
	}

	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return spider.URI{}, false, nil
	} else if err != nil {
		return spider.URI{}, false, fmt.Errorf("pop: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return spider.URI{}, false, spider.Errorf(spider.EINTERNAL, "corrupt frontier entry: %v", err)
	}
	uri, err := spider.ParseURI(e.URI)
	if err != nil {
		return spider.URI{}, false, err
	}
	return uri, true, nil
}

// Len returns the number of pending entries.
func (f *Frontier) Len(ctx context.Context) (int, error) {
	n, err := f.client.LLen(ctx, f.key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Clear removes every pending entry.
func (f *Frontier) Clear(ctx context.Context) error {
	return f.client.Del(ctx, f.key).Err()
}
