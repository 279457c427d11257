package crawl

import (
	"fmt"
	"sync"

	"github.com/fwojciec/spider"
)

var _ spider.Notifier = (*Dispatcher)(nil)

// Dispatcher fans events out to its listeners in subscription order.
// A panicking listener is isolated: the panic is recovered, reported to
// OnPanic, and the remaining listeners still receive the event.
type Dispatcher struct {
	// OnPanic is called with the event and the recovered value when a
	// listener panics. Optional.
	OnPanic func(e spider.Event, err error)

	mu        sync.RWMutex
	listeners []spider.Notifier
}

// NewDispatcher returns a Dispatcher with the given listeners subscribed.
func NewDispatcher(listeners ...spider.Notifier) *Dispatcher {
	d := &Dispatcher{}
	for _, l := range listeners {
		d.Subscribe(l)
	}
	return d
}

// Subscribe adds a listener for every event type.
func (d *Dispatcher) Subscribe(n spider.Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, n)
}

// On adds a listener for a single event type.
func (d *Dispatcher) On(typ spider.EventType, fn func(spider.Event)) {
	d.Subscribe(spider.NotifierFunc(func(e spider.Event) {
		if e.Type == typ {
			fn(e)
		}
	}))
}

// Notify delivers e to every listener.
func (d *Dispatcher) Notify(e spider.Event) {
	d.mu.RLock()
	listeners := make([]spider.Notifier, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, l := range listeners {
		d.deliver(l, e)
	}
}

func (d *Dispatcher) deliver(l spider.Notifier, e spider.Event) {
	defer func() {
		if r := recover(); r != nil && d.OnPanic != nil {
			d.OnPanic(e, fmt.Errorf("listener panic: %v", r))
		}
	}()
	l.Notify(e)
}
