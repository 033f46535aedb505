// Package events re-exports the platform event bus for convenience and
// declares the domain events exchanged between modules. This allows internal
// modules to import events from internal/events while the bus implementation
// lives in platform/events.
package events

import (
	platformevents "homezy_backend/platform/events"
	"homezy_backend/platform/logger"
)

// Event re-exports the platform event interface.
type Event = platformevents.Event

// BaseEvent re-exports the platform base event.
type BaseEvent = platformevents.BaseEvent

// Bus re-exports the platform bus interface.
type Bus = platformevents.Bus

// Handler re-exports the platform handler interface.
type Handler = platformevents.Handler

// HandlerFunc re-exports the platform handler adapter.
type HandlerFunc = platformevents.HandlerFunc

// InMemoryBus is a type alias to the platform InMemoryBus.
type InMemoryBus = platformevents.InMemoryBus

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
