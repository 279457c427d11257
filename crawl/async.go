package crawl

import (
	"sync"
	"sync/atomic"

	"github.com/fwojciec/spider"
)

var _ spider.Notifier = (*AsyncNotifier)(nil)

// DefaultAsyncBuffer is the event buffer size used by NewAsyncNotifier
// when size is not positive.
const DefaultAsyncBuffer = 256

// AsyncNotifier delivers events to a slow listener on its own goroutine.
// Notify never blocks: when the buffer is full the event is dropped and
// counted.
type AsyncNotifier struct {
	next    spider.Notifier
	events  chan spider.Event
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewAsyncNotifier starts a goroutine that forwards events to next.
// Callers must call Close to release it.
func NewAsyncNotifier(next spider.Notifier, size int) *AsyncNotifier {
	if size <= 0 {
		size = DefaultAsyncBuffer
	}
	a := &AsyncNotifier{
		next:   next,
		events: make(chan spider.Event, size),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncNotifier) run() {
	defer close(a.done)
	for e := range a.events {
		a.deliver(e)
	}
}

func (a *AsyncNotifier) deliver(e spider.Event) {
	defer func() { _ = recover() }()
	a.next.Notify(e)
}

// Notify enqueues e for delivery. Events sent after Close are dropped.
func (a *AsyncNotifier) Notify(e spider.Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.events <- e:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns the number of events that were not delivered.
func (a *AsyncNotifier) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting events and waits until buffered events are delivered.
func (a *AsyncNotifier) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return nil
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()

	<-a.done
	return nil
}
