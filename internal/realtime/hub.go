// Package realtime implements the mutation broadcast channel: an
// in-process publish/subscribe hub plus the websocket transport that
// bridges it to connected clients. Delivery is fire-and-forget, there
// is no replay for late subscribers, and a slow subscriber never blocks
// the publisher.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBuffer bounds how many undelivered events a subscriber may
// accumulate before further events are dropped for it.
const subscriberBuffer = 16

// Subscription is a live attachment to the hub. Events arrive on C
// until Unsubscribe is called, at which point C is closed.
type Subscription struct {
	ID string
	C  <-chan Event

	ch chan Event
}

// Hub fans committed mutation events out to all current subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscription
	closed      bool
	logger      *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscription),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber. Only events published after
// registration are delivered.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{
		ID: uuid.NewString(),
		C:  ch,
		ch: ch,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.subscribers[sub.ID] = sub

	h.logger.Debug("Subscriber registered",
		zap.String("subscriber_id", sub.ID),
		zap.Int("subscribers", len(h.subscribers)),
	)
	return sub
}

// Unsubscribe detaches a subscriber and closes its channel. Safe to
// call for an unknown or already-removed id.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	close(sub.ch)

	h.logger.Debug("Subscriber removed",
		zap.String("subscriber_id", id),
		zap.Int("subscribers", len(h.subscribers)),
	)
}

// Publish delivers an event to every current subscriber without
// blocking: when a subscriber's buffer is full the event is dropped for
// that subscriber only.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for id, sub := range h.subscribers {
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("Dropping event for slow subscriber",
				zap.String("subscriber_id", id),
				zap.String("action", string(event.Action)),
			)
		}
	}
}

// SubscriberCount returns the number of live subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close detaches all subscribers and rejects further registrations
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subscribers {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}
