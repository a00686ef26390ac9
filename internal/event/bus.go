// Package event provides the in-process publish/subscribe bus decoupling
// the auth orchestrators from the mail notifier.
package event

import (
	"context"
	"log/slog"
	"sync"
)

// Event is implemented by the domain event types.
type Event interface {
	Topic() string
}

// Handler processes one event. Handlers run on the subscriber's own
// goroutine, one event at a time, in publish order.
type Handler func(ctx context.Context, e Event)

type subscriber struct {
	topic string
	ch    chan Event
}

// Bus dispatches events synchronously into per-subscriber queues; each
// subscriber drains its queue asynchronously. Publish never drops an event
// (it blocks if a subscriber's queue is full), giving at-least-once,
// order-preserving delivery within the process.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]*subscriber
	wg     sync.WaitGroup
	logger *slog.Logger
}

const queueSize = 64

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]*subscriber),
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers a handler for a topic. The handler runs on its own
// goroutine until Close.
func (b *Bus) Subscribe(topic string, h Handler) {
	sub := &subscriber{topic: topic, ch: make(chan Event, queueSize)}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for e := range sub.ch {
			h(context.Background(), e)
		}
	}()
}

// Publish enqueues the event for every subscriber of its topic.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := b.subs[e.Topic()]
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.WarnContext(ctx, "event with no subscribers", "topic", e.Topic())
		return
	}
	for _, sub := range subs {
		sub.ch <- e
	}
}

// Close stops all subscriber goroutines after their queues drain.
func (b *Bus) Close() {
	b.mu.Lock()
	for _, subs := range b.subs {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	b.subs = make(map[string][]*subscriber)
	b.mu.Unlock()

	b.wg.Wait()
}
