package server

import (
	"context"
	"sync"

	"bookforge/internal/events"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing events rather than stalling the runs
// that produce them.
const subscriberBuffer = 64

// Notification pairs a published event with the channel it was emitted on.
type Notification struct {
	Channel string
	Event   events.ProgressEvent
}

type subscriber struct {
	ch     chan Notification
	runKey string
}

// Hub fans progress events out to SSE subscribers. Publishing never blocks;
// slow subscribers drop events.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]*subscriber
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscriber)}
}

// Publish satisfies the emitter signature installed via
// events.SetCustomEmitter.
func (h *Hub) Publish(ctx context.Context, channel string, evt events.ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := Notification{Channel: channel, Event: evt}
	for _, sub := range h.subs {
		if sub.runKey != "" && sub.runKey != evt.RunKey {
			continue
		}
		select {
		case sub.ch <- n:
		default:
		}
	}
}

// Subscribe registers a listener. An empty runKey receives events for every
// run. The returned id releases the subscription via Unsubscribe.
func (h *Hub) Subscribe(runKey string) (int, <-chan Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	sub := &subscriber{
		ch:     make(chan Notification, subscriberBuffer),
		runKey: runKey,
	}
	h.subs[id] = sub
	return id, sub.ch
}

// Unsubscribe removes a listener and closes its channel.
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
