package mock

import (
	"context"

	"github.com/fwojciec/spider"
)

var _ spider.RunService = (*RunService)(nil)

// RunService is a mock implementation of spider.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *spider.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*spider.Run, error)
	FindRunsFn    func(ctx context.Context, filter spider.RunFilter) ([]*spider.Run, error)
	FinishRunFn   func(ctx context.Context, id string, upd spider.RunUpdate) (*spider.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *spider.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*spider.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter spider.RunFilter) ([]*spider.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd spider.RunUpdate) (*spider.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

var _ spider.ResourceFinder = (*ResourceFinder)(nil)

// ResourceFinder is a mock implementation of spider.ResourceFinder.
type ResourceFinder struct {
	FindResourcesFn func(ctx context.Context, filter spider.ResourceFilter) ([]*spider.Resource, error)
}

func (f *ResourceFinder) FindResources(ctx context.Context, filter spider.ResourceFilter) ([]*spider.Resource, error) {
	return f.FindResourcesFn(ctx, filter)
}
