// Package events provides the in-process event bus the domain modules use to
// talk to each other without importing one another. Publishers fire domain
// events (lead answered, reminder due, licence expiring); the notification
// module subscribes and fans them out to the delivery channels.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName returns the unique name handlers subscribe under.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events. Embed it and call
// NewBaseEvent at the publish site.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes one event. A handler subscribed to several event names
// typically switches on the concrete type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes and subscribes domain events.
type Bus interface {
	// Publish fans the event out to every handler registered under its
	// name. Handlers run asynchronously; failures are logged, never
	// returned to the publisher.
	Publish(ctx context.Context, event Event)

	// PublishSync runs the handlers inline and returns their joined
	// errors. Used where the caller must observe delivery failures.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name, matching
	// Event.EventName().
	Subscribe(eventName string, handler Handler)
}
