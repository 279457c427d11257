package crawl_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func popAll(t *testing.T, f *crawl.Frontier) []string {
	t.Helper()
	var got []string
	for {
		uri, ok, err := f.Pop(context.Background())
		require.NoError(t, err)
		if !ok {
			return got
		}
		got = append(got, uri.String())
	}
}

func TestFrontier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := spider.MustParseURI("http://x.test/a")
	b := spider.MustParseURI("http://x.test/b")
	c := spider.MustParseURI("http://x.test/c")

	t.Run("yields in insertion order for breadth-first traversal", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(3)
		require.NoError(t, f.Push(ctx, a, 0))
		require.NoError(t, f.Push(ctx, b, 1))
		require.NoError(t, f.Push(ctx, c, 1))

		assert.Equal(t, []string{"http://x.test/a", "http://x.test/b", "http://x.test/c"}, popAll(t, f))
	})

	t.Run("yields in reverse order for depth-first traversal", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(3, crawl.WithTraversal(spider.DepthFirst))
		require.NoError(t, f.Push(ctx, a, 0))
		require.NoError(t, f.Push(ctx, b, 1))
		require.NoError(t, f.Push(ctx, c, 1))

		assert.Equal(t, []string{"http://x.test/c", "http://x.test/b", "http://x.test/a"}, popAll(t, f))
	})

	t.Run("reports exhaustion when empty", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1)
		_, ok, err := f.Pop(ctx)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects URIs deeper than max depth", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1)
		err := f.Push(ctx, a, 2)

		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
		assert.Equal(t, 0, f.Len())
	})

	t.Run("rejects pushes beyond max size", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1, crawl.WithMaxSize(2))
		require.NoError(t, f.Push(ctx, a, 0))
		require.NoError(t, f.Push(ctx, b, 0))
		err := f.Push(ctx, c, 0)

		assert.Equal(t, spider.EQUEUEFULL, spider.ErrorCode(err))
		assert.Equal(t, "maximum queue size of 2 reached", spider.ErrorMessage(err))
		assert.Equal(t, 2, f.Len())
	})

	t.Run("accepts pushes again after a pop frees space", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1, crawl.WithMaxSize(1))
		require.NoError(t, f.Push(ctx, a, 0))
		_, _, err := f.Pop(ctx)
		require.NoError(t, err)

		assert.NoError(t, f.Push(ctx, b, 0))
	})

	t.Run("reports max depth", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 4, crawl.NewFrontier(4).MaxDepth())
	})

	t.Run("yields every pushed entry exactly once under concurrency", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = f.Push(ctx, spider.MustParseURI(fmt.Sprintf("http://x.test/%d", i)), 1)
			}(i)
		}
		wg.Wait()

		seen := map[string]bool{}
		for _, u := range popAll(t, f) {
			assert.False(t, seen[u], "duplicate %s", u)
			seen[u] = true
		}
		assert.Len(t, seen, 50)
	})
}
