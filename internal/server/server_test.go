package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/events"
)

func TestServerRunShutsDownOnContextCancel(t *testing.T) {
	s := newTestServer(t, &stubRuns{})
	s.cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the listener a moment, then verify the hub is installed as the
	// process-wide emitter.
	time.Sleep(50 * time.Millisecond)

	id, ch := s.Hub().Subscribe("run-1")
	events.Emit(events.WithRun(context.Background(), "run-1"), events.RunProgress,
		events.NewInfo("generate_outline", "first step"))

	select {
	case n := <-ch:
		assert.Equal(t, "run-1", n.Event.RunKey, "emitter should scope events to the run key from ctx")
		assert.Equal(t, "first step", n.Event.Message)
	case <-time.After(time.Second):
		t.Fatal("emitted event never reached the hub subscriber")
	}
	s.Hub().Unsubscribe(id)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}
