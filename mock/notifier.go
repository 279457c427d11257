package mock

import "github.com/fwojciec/spider"

var _ spider.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of spider.Notifier.
type Notifier struct {
	NotifyFn func(e spider.Event)
}

func (n *Notifier) Notify(e spider.Event) {
	n.NotifyFn(e)
}
