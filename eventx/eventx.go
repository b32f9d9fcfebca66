package eventx

import (
	"time"

	"github.com/google/uuid"
)

// Event is the base interface for all events
type Event interface {
	ID() string
	Type() string
	Timestamp() time.Time
	Source() string
	Payload() any
	Metadata() map[string]any
}

// TypedEvent provides type-safe access to event data
type TypedEvent[T any] interface {
	Event
	Data() T
}

// EventOptions configure event creation
type EventOptions struct {
	Source    string
	Timestamp time.Time
	Metadata  map[string]any
}

// BaseEvent implements TypedEvent for any payload
type BaseEvent[T any] struct {
	id        string
	eventType string
	timestamp time.Time
	source    string
	data      T
	metadata  map[string]any
}

// NewEvent creates a new typed event with a random ID
func NewEvent[T any](eventType string, data T, opts ...EventOptions) TypedEvent[T] {
	o := EventOptions{Source: "mockup2html"}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	if o.Metadata == nil {
		o.Metadata = make(map[string]any)
	}

	return &BaseEvent[T]{
		id:        uuid.NewString(),
		eventType: eventType,
		timestamp: o.Timestamp,
		source:    o.Source,
		data:      data,
		metadata:  o.Metadata,
	}
}

func (e *BaseEvent[T]) ID() string               { return e.id }
func (e *BaseEvent[T]) Type() string             { return e.eventType }
func (e *BaseEvent[T]) Timestamp() time.Time     { return e.timestamp }
func (e *BaseEvent[T]) Source() string           { return e.source }
func (e *BaseEvent[T]) Payload() any             { return e.data }
func (e *BaseEvent[T]) Metadata() map[string]any { return e.metadata }
func (e *BaseEvent[T]) Data() T                  { return e.data }

// SetMetadata adds or updates metadata
func (e *BaseEvent[T]) SetMetadata(key string, value any) {
	e.metadata[key] = value
}
