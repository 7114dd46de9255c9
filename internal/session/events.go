package session

// Event represents a session lifecycle event.
// Minimal and stable: name + request ID and optional fields via key/values.
type Event struct {
	Name      string
	RequestID string
	Fields    map[string]any
}

// Event names published by the session.
const (
	EventRequestAdded   = "request.added"
	EventRequestRemoved = "request.removed"
	EventRequestWaiting = "request.waiting_authorization"
	EventPaused         = "requests.paused"
	EventResumed        = "requests.resumed"
	EventAuthChanged    = "authorization.changed"
	EventProviderError  = "provider.error"
)

// EventPublisher receives events from the session. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
