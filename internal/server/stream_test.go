package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/events"
	"bookforge/internal/models"
)

// closeNotifyRecorder adds the CloseNotifier behavior gin's Stream helper
// expects from the response writer.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestStreamFinishedRunEmitsDoneImmediately(t *testing.T) {
	runs := &stubRuns{
		get: func(key string) (*models.BookRun, error) {
			return &models.BookRun{
				Key:        key,
				Status:     models.RunStatusCompleted,
				OutputPath: "/tmp/book.md",
			}, nil
		},
	}
	s := newTestServer(t, runs)

	w := performRequest(s, http.MethodGet, "/api/runs/run-1/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event:done")
	assert.Contains(t, w.Body.String(), "Book exported to /tmp/book.md")
}

func TestStreamFailedRunCarriesError(t *testing.T) {
	runs := &stubRuns{
		get: func(key string) (*models.BookRun, error) {
			return &models.BookRun{
				Key:          key,
				Status:       models.RunStatusFailed,
				ErrorMessage: "model unavailable",
			}, nil
		},
	}
	s := newTestServer(t, runs)

	w := performRequest(s, http.MethodGet, "/api/runs/run-1/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event:done")
	assert.Contains(t, w.Body.String(), "model unavailable")
	assert.Contains(t, w.Body.String(), `"type":"error"`)
}

func TestStreamUnknownRun(t *testing.T) {
	runs := &stubRuns{
		get: func(key string) (*models.BookRun, error) { return nil, nil },
	}
	s := newTestServer(t, runs)

	w := performRequest(s, http.MethodGet, "/api/runs/nope/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamLiveRun(t *testing.T) {
	runs := &stubRuns{
		get: func(key string) (*models.BookRun, error) {
			return &models.BookRun{Key: key, Status: models.RunStatusRunning}, nil
		},
	}
	s := newTestServer(t, runs)

	go func() {
		// The subscription appears once the handler reaches the stream
		// loop; publish after that.
		for i := 0; i < 200 && s.Hub().SubscriberCount() == 0; i++ {
			time.Sleep(5 * time.Millisecond)
		}

		progress := events.NewInfo("generate_outline", "Drafting the outline")
		progress.RunKey = "run-1"
		s.Hub().Publish(context.Background(), events.RunProgress, progress)

		done := events.NewSuccess("run", "Book exported to /tmp/book.md")
		done.RunKey = "run-1"
		s.Hub().Publish(context.Background(), events.RunDone, done)
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/runs/run-1/events", nil)
	w := newCloseNotifyRecorder()
	s.Engine().ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "event:progress")
	assert.Contains(t, body, "Drafting the outline")
	assert.Contains(t, body, "event:done")
	assert.Contains(t, body, "Book exported to /tmp/book.md")

	assert.Zero(t, s.Hub().SubscriberCount(), "stream handler must unsubscribe on exit")
}
