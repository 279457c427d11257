package crawl_test

import (
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	t.Parallel()

	a := spider.MustParseURI("http://x.test/a")
	b := spider.MustParseURI("http://x.test/b")
	c := spider.MustParseURI("http://x.test/c")

	s := crawl.NewStats()
	s.Notify(spider.Event{Type: spider.EventPreRequest, URI: a})
	s.Notify(spider.Event{Type: spider.EventResourcePersisted, URI: a})
	s.Notify(spider.Event{Type: spider.EventRequestError, URI: b, Message: "timeout"})
	s.Notify(spider.Event{Type: spider.EventFilteredPreFetch, URI: c})

	assert.Equal(t, 1, s.Count(spider.EventPreRequest))
	assert.Equal(t, 0, s.Count(spider.EventUserStopped))
	assert.Equal(t, []spider.URI{a}, s.Persisted())
	assert.Equal(t, map[spider.URI]string{b: "timeout"}, s.Failed())
	assert.Equal(t, []spider.URI{c}, s.Filtered())
}
