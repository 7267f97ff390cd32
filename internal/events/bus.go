// Package events provides a pub/sub bus for debate lifecycle events.
// Delivery is synchronous: subscribers run on the publisher's goroutine,
// and a panic in one subscriber never prevents delivery to the others.
package events

import (
	"sync"
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	Timestamp() time.Time
	SessionID() string
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type    string    `json:"type"`
	Time    time.Time `json:"timestamp"`
	Session string    `json:"session_id"`
}

func (e BaseEvent) EventType() string    { return e.Type }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) SessionID() string    { return e.Session }

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType, sessionID string) BaseEvent {
	return BaseEvent{
		Type:    eventType,
		Time:    time.Now(),
		Session: sessionID,
	}
}

// Handler receives published events. Handlers must not block; they run
// inline on the publishing goroutine.
type Handler func(Event)

type subscriber struct {
	id      int
	handler Handler
	types   map[string]bool // Empty means all types
}

// Bus delivers events synchronously to registered subscribers.
// Delivery order across subscribers for one event is unspecified.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]*subscriber
	nextID      int
	closed      bool
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[int]*subscriber),
	}
}

// Subscribe registers a handler for specific event types.
// If no types are specified, the handler receives all events.
// The returned function removes the subscription.
func (b *Bus) Subscribe(h Handler, types ...string) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	sub := &subscriber{
		id:      id,
		handler: h,
		types:   make(map[string]bool),
	}
	for _, t := range types {
		sub.types[t] = true
	}
	b.subscribers[id] = sub

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// Publish delivers an event to all matching subscribers. A panicking
// subscriber is isolated; remaining subscribers still receive the event.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	eventType := event.EventType()
	for _, sub := range subs {
		if len(sub.types) == 0 || sub.types[eventType] {
			deliver(sub.handler, event)
		}
	}
}

func deliver(h Handler, event Event) {
	defer func() {
		_ = recover()
	}()
	h(event)
}

// Close stops all future delivery and drops all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	b.subscribers = make(map[int]*subscriber)
}
