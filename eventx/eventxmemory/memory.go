// Package eventxmemory is an in-process EventBus.
package eventxmemory

import (
	"context"
	"sync"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/eventx"
	"github.com/Abraxas-365/mockup2html/logx"
)

// Bus delivers events synchronously to subscribers in registration order.
// Handler errors are logged and do not stop delivery.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]eventx.EventHandler
	closed   bool
	forward  eventx.Publisher
}

var _ eventx.EventBus = (*Bus)(nil)

// Option configures a Bus
type Option func(*Bus)

// WithForward sends every published event on to another publisher too
func WithForward(p eventx.Publisher) Option {
	return func(b *Bus) { b.forward = p }
}

// New creates an empty bus
func New(opts ...Option) *Bus {
	b := &Bus{handlers: make(map[string][]eventx.EventHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Subscribe(eventType string, handler eventx.EventHandler) error {
	if eventType == "" {
		return eventx.ErrorRegistry.New(eventx.ErrInvalidEventType)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

func (b *Bus) Publish(ctx context.Context, event eventx.Event) error {
	if event.Type() == "" {
		return eventx.ErrorRegistry.New(eventx.ErrInvalidEventType).
			WithDetail("event_id", event.ID())
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return eventx.ErrorRegistry.New(eventx.ErrBusClosed)
	}
	handlers := append([]eventx.EventHandler(nil), b.handlers[event.Type()]...)
	handlers = append(handlers, b.handlers["*"]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			logx.Warn("handler for %s failed: %v", event.Type(),
				eventx.ErrorRegistry.NewWithCause(eventx.ErrHandlerFailed, err).
					WithDetail("event_id", event.ID()))
		}
	}

	if b.forward != nil {
		if err := b.forward.Publish(ctx, event); err != nil {
			return errx.Wrap(err, "forward event", errx.TypeExternal)
		}
	}
	return nil
}

func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
