package spider

import "time"

// EventType names a lifecycle notification. The values are part of the
// external protocol and must not change.
type EventType string

// Lifecycle events emitted by the crawl engine.
const (
	EventPreRequest        EventType = "pre-request"
	EventPostRequest       EventType = "post-request"
	EventRequestError      EventType = "request-error"
	EventFilteredPreFetch  EventType = "filtered-pre-fetch"
	EventFilteredPostFetch EventType = "filtered-post-fetch"
	EventResourcePersisted EventType = "resource-persisted"
	EventUserStopped       EventType = "user-stopped"
)

// Event is a lifecycle notification.
type Event struct {
	Type  EventType
	URI   URI
	Depth int

	// Message carries the failure detail for EventRequestError.
	Message string

	Time time.Time
}

// Notifier receives lifecycle events.
// Notify must not block the crawl loop indefinitely.
type Notifier interface {
	Notify(e Event)
}

// NotifierFunc adapts an ordinary function to the Notifier interface.
type NotifierFunc func(e Event)

// Notify calls fn(e).
func (fn NotifierFunc) Notify(e Event) {
	fn(e)
}
