package shared

import "context"

// EventHandler consumes domain events delivered by the bus
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants.
	// Empty means all events.
	EventTypes() []string
}

// EventPublisher delivers domain events to subscribed handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types.
	// With no types the handler receives every event.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full publish/subscribe surface plus lifecycle control
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
