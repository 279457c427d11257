package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/spider"
)

// Ensure LoggingStore implements spider.ResourceStore.
var _ spider.ResourceStore = (*LoggingStore)(nil)

// LoggingStore wraps a ResourceStore with persistence logging.
type LoggingStore struct {
	next   spider.ResourceStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next spider.ResourceStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Persist logs the stored resource and delegates to the wrapped store.
func (s *LoggingStore) Persist(ctx context.Context, res *spider.Resource) (err error) {
	defer func(begin time.Time) {
		var uri spider.URI
		if res != nil {
			uri = res.URI
		}
		s.logger.Debug("persist",
			"uri", uri,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Persist(ctx, res)
}

// Count delegates to the wrapped store.
func (s *LoggingStore) Count() int {
	return s.next.Count()
}
