package mock

import (
	"context"

	"github.com/fwojciec/spider"
)

var _ spider.ResourceStore = (*ResourceStore)(nil)

// ResourceStore is a mock implementation of spider.ResourceStore.
type ResourceStore struct {
	PersistFn func(ctx context.Context, res *spider.Resource) error
	CountFn   func() int
}

func (s *ResourceStore) Persist(ctx context.Context, res *spider.Resource) error {
	return s.PersistFn(ctx, res)
}

func (s *ResourceStore) Count() int {
	return s.CountFn()
}
