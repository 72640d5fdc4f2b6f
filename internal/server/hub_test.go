package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/events"
)

func publishProgress(h *Hub, runKey, message string) {
	evt := events.NewInfo("outline", message)
	evt.RunKey = runKey
	h.Publish(context.Background(), events.RunProgress, evt)
}

func TestHubRoutesByRunKey(t *testing.T) {
	h := NewHub()

	idA, chA := h.Subscribe("run-a")
	defer h.Unsubscribe(idA)
	idB, chB := h.Subscribe("run-b")
	defer h.Unsubscribe(idB)

	publishProgress(h, "run-a", "for a")

	select {
	case n := <-chA:
		assert.Equal(t, events.RunProgress, n.Channel)
		assert.Equal(t, "for a", n.Event.Message)
	default:
		t.Fatal("subscriber for run-a should have received the event")
	}

	select {
	case n := <-chB:
		t.Fatalf("subscriber for run-b received foreign event: %+v", n)
	default:
	}
}

func TestHubEmptyKeyReceivesEverything(t *testing.T) {
	h := NewHub()

	id, ch := h.Subscribe("")
	defer h.Unsubscribe(id)

	publishProgress(h, "run-a", "first")
	publishProgress(h, "run-b", "second")

	require.Len(t, ch, 2)
	assert.Equal(t, "first", (<-ch).Event.Message)
	assert.Equal(t, "second", (<-ch).Event.Message)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := NewHub()

	id, ch := h.Subscribe("run-a")
	defer h.Unsubscribe(id)

	// Overflow the buffer; the excess must be dropped, not block.
	for i := 0; i < subscriberBuffer+10; i++ {
		publishProgress(h, "run-a", "flood")
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()

	id, ch := h.Subscribe("run-a")
	require.Equal(t, 1, h.SubscriberCount())

	h.Unsubscribe(id)
	assert.Zero(t, h.SubscriberCount())

	_, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")

	// Releasing twice is harmless.
	h.Unsubscribe(id)
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	h := NewHub()
	publishProgress(h, "run-a", "nobody listening")
	assert.Zero(t, h.SubscriberCount())
}
