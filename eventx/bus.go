package eventx

import (
	"context"
)

// EventHandler processes one delivered event
type EventHandler func(ctx context.Context, event Event) error

// Publisher sends events somewhere else
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBus is a Publisher that also delivers to local subscribers
type EventBus interface {
	Publisher

	// Subscribe registers a handler for an event type; "*" matches all
	Subscribe(eventType string, handler EventHandler) error

	// Close stops accepting events
	Close(ctx context.Context) error
}

// SubscribeTyped registers a handler that only sees payloads of type T
func SubscribeTyped[T any](bus EventBus, eventType string, handler func(ctx context.Context, data T) error) error {
	return bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		data, ok := event.Payload().(T)
		if !ok {
			return nil
		}
		return handler(ctx, data)
	})
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Subscribe(string, EventHandler) error { return nil }
func (Nop) Close(context.Context) error          { return nil }
