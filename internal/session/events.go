package session

// Event represents a session lifecycle event.
// Minimal and stable: name + model path and optional fields.
type Event struct {
	Name   string
	Path   string
	Fields map[string]any
}

// EventPublisher receives events from the session. Implementations should be
// lightweight and non-blocking; Publish is called with the session lock held
// and must not call back into the session.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
