package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/spider"
)

// Ensure EventLogger implements spider.Notifier.
var _ spider.Notifier = (*EventLogger)(nil)

// EventLogger writes crawl events to a logger. Request errors are logged
// at warn level, filtering and per-request events at debug, and
// persistence and stop events at info.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger creates a new EventLogger.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Notify logs e.
func (l *EventLogger) Notify(e spider.Event) {
	attrs := []slog.Attr{
		slog.String("uri", e.URI.String()),
		slog.Int("depth", e.Depth),
	}
	if e.Message != "" {
		attrs = append(attrs, slog.String("error", e.Message))
	}
	l.logger.LogAttrs(context.Background(), level(e.Type), string(e.Type), attrs...)
}

func level(t spider.EventType) slog.Level {
	switch t {
	case spider.EventRequestError:
		return slog.LevelWarn
	case spider.EventResourcePersisted, spider.EventUserStopped:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
