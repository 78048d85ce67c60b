// Package events provides the in-process change bus that models the
// push-based store sync: every committed mutation publishes an event, and
// consumers recompute their derived views from a fresh snapshot.
package events

import (
	"sync"
	"time"
)

// Topic names a store collection whose contents changed.
type Topic string

const (
	TopicAppointments  Topic = "appointments"
	TopicServices      Topic = "services"
	TopicTechnicians   Topic = "technicians"
	TopicLaserDates    Topic = "laser_dates"
	TopicNotifications Topic = "notifications"
)

// Event describes one committed change.
type Event struct {
	Topic     Topic
	Action    string // "created", "updated", "cancelled", "deleted"
	EntityID  string
	CreatedAt time.Time
}

// Handler reacts to an event. Handlers must not mutate shared state; they
// are expected to pull a new snapshot and recompute.
type Handler func(event Event)

// Bus provides in-process pub/sub over store change topics.
type Bus struct {
	subscribers map[Topic][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

// Publish notifies subscribers of the topic.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Topic]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		handler(event)
	}
}
