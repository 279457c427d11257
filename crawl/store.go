package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/spider"
)

var _ spider.ResourceStore = (*MemoryStore)(nil)

// MemoryStore keeps persisted resources in memory.
type MemoryStore struct {
	mu        sync.Mutex
	resources []*spider.Resource
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Persist appends res to the store.
func (s *MemoryStore) Persist(_ context.Context, res *spider.Resource) error {
	if res == nil {
		return spider.Errorf(spider.EINVALID, "nil resource")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, res)
	return nil
}

// Count returns the number of persisted resources.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resources)
}

// Resources returns the persisted resources in persistence order.
func (s *MemoryStore) Resources() []*spider.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*spider.Resource(nil), s.resources...)
}
