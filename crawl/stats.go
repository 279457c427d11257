package crawl

import (
	"sync"

	"github.com/fwojciec/spider"
)

var _ spider.Notifier = (*Stats)(nil)

// Stats is a listener that tallies lifecycle events and remembers the URIs
// that were persisted, failed or filtered.
type Stats struct {
	mu        sync.Mutex
	counts    map[spider.EventType]int
	persisted []spider.URI
	failed    map[spider.URI]string
	filtered  []spider.URI
}

// NewStats returns an empty Stats listener.
func NewStats() *Stats {
	return &Stats{
		counts: make(map[spider.EventType]int),
		failed: make(map[spider.URI]string),
	}
}

// Notify records e.
func (s *Stats) Notify(e spider.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[e.Type]++
	switch e.Type {
	case spider.EventResourcePersisted:
		s.persisted = append(s.persisted, e.URI)
	case spider.EventRequestError:
		s.failed[e.URI] = e.Message
	case spider.EventFilteredPreFetch, spider.EventFilteredPostFetch:
		s.filtered = append(s.filtered, e.URI)
	}
}

// Count returns how many events of typ were seen.
func (s *Stats) Count(typ spider.EventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[typ]
}

// Persisted returns the persisted URIs in persistence order.
func (s *Stats) Persisted() []spider.URI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spider.URI(nil), s.persisted...)
}

// Filtered returns the URIs rejected by a pre- or post-fetch filter.
func (s *Stats) Filtered() []spider.URI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spider.URI(nil), s.filtered...)
}

// Failed returns the failed URIs mapped to their error messages.
func (s *Stats) Failed() map[spider.URI]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[spider.URI]string, len(s.failed))
	for k, v := range s.failed {
		m[k] = v
	}
	return m
}
