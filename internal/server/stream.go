package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookforge/internal/events"
	"bookforge/internal/models"
)

// handleStreamRun streams a run's progress as server-sent events. Each
// workflow step arrives as a "progress" event; the terminal "done" event
// closes the stream. Connecting to an already finished run yields the done
// event immediately.
func (s *Server) handleStreamRun(c *gin.Context) {
	key := c.Param("key")
	run, err := s.services.Runs.Get(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if run.Status != models.RunStatusRunning {
		evt := events.NewSuccess("run", "Book exported to "+run.OutputPath)
		if run.Status == models.RunStatusFailed {
			evt = events.NewError("run", run.ErrorMessage)
		}
		evt.RunKey = run.Key
		c.SSEvent("done", evt)
		return
	}

	id, ch := s.hub.Subscribe(key)
	defer s.hub.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			if n.Channel == events.RunDone {
				c.SSEvent("done", n.Event)
				return false
			}
			c.SSEvent("progress", n.Event)
			return true

		case <-c.Request.Context().Done():
			return false
		}
	})
}
