package crawl_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncNotifier(t *testing.T) {
	t.Parallel()

	t.Run("delivers buffered events before Close returns", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var got []spider.EventType
		a := crawl.NewAsyncNotifier(spider.NotifierFunc(func(e spider.Event) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, e.Type)
		}), 10)

		a.Notify(spider.Event{Type: spider.EventPreRequest})
		a.Notify(spider.Event{Type: spider.EventPostRequest})
		require.NoError(t, a.Close())

		assert.Equal(t, []spider.EventType{spider.EventPreRequest, spider.EventPostRequest}, got)
		assert.Zero(t, a.Dropped())
	})

	t.Run("drops events instead of blocking when the buffer is full", func(t *testing.T) {
		t.Parallel()

		block := make(chan struct{})
		received := make(chan struct{}, 1)
		a := crawl.NewAsyncNotifier(spider.NotifierFunc(func(spider.Event) {
			select {
			case received <- struct{}{}:
			default:
			}
			<-block
		}), 1)

		a.Notify(spider.Event{Type: spider.EventPreRequest})
		<-received // listener is now blocked holding the first event
		a.Notify(spider.Event{Type: spider.EventPreRequest})
		a.Notify(spider.Event{Type: spider.EventPreRequest})

		assert.Equal(t, int64(1), a.Dropped())
		close(block)
		require.NoError(t, a.Close())
	})

	t.Run("drops events sent after Close", func(t *testing.T) {
		t.Parallel()

		a := crawl.NewAsyncNotifier(spider.NotifierFunc(func(spider.Event) {}), 1)
		require.NoError(t, a.Close())

		a.Notify(spider.Event{Type: spider.EventPreRequest})

		assert.Equal(t, int64(1), a.Dropped())
		assert.NoError(t, a.Close())
	})
}
