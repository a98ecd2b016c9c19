package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription. Delivery is
// best-effort: consumers must be able to re-query state on their own.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) (unsubscribe func())
	SubscribeTopic(topic Topic, handler EventHandler) (unsubscribe func())
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	nextID  uint64
	byType  map[EventType][]subscription
	byTopic map[Topic][]subscription
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryDispatcher{
		logger:  logger,
		byType:  make(map[EventType][]subscription),
		byTopic: make(map[Topic][]subscription),
	}
}

// Publish synchronously invokes handlers for the given event. Handler errors
// are logged and never stop delivery to the remaining handlers.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := append([]subscription{}, d.byType[event.Type]...)
	subs = append(subs, d.byTopic[event.Type.Topic()]...)
	d.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.byType[eventType] = append(d.byType[eventType], subscription{id: id, handler: handler})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.byType[eventType] = removeSubscription(d.byType[eventType], id)
	}
}

// SubscribeTopic registers a handler for every event type within topic.
func (d *inMemoryDispatcher) SubscribeTopic(topic Topic, handler EventHandler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.byTopic[topic] = append(d.byTopic[topic], subscription{id: id, handler: handler})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.byTopic[topic] = removeSubscription(d.byTopic[topic], id)
	}
}

func removeSubscription(subs []subscription, id uint64) []subscription {
	out := subs[:0:0]
	for _, sub := range subs {
		if sub.id != id {
			out = append(out, sub)
		}
	}
	return out
}
