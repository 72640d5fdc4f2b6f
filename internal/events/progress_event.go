package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	// RunProgress is the channel carrying per-step workflow updates.
	RunProgress = "events:run:progress"
	// RunDone is the channel signalling a finished run, success or not.
	RunDone = "events:run:done"
)

// ProgressEvent is the payload emitted as a book run moves through the
// workflow. Stage names the workflow step; Chapter is set only for
// chapter-scoped steps.
type ProgressEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Stage     string            `json:"stage"`
	Chapter   int               `json:"chapter,omitempty"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	RunKey    string            `json:"runKey,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const runContextKey contextKey = "bookforge/events/run"

// WithRun returns a derived context annotated with the given run key so
// event emitters can automatically scope payloads.
func WithRun(ctx context.Context, runKey string) context.Context {
	if strings.TrimSpace(runKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, runContextKey, runKey)
}

// RunFromContext extracts the run key associated with ctx.
func RunFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(runContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateProgressEvent(eventType EventType, stage, message string) ProgressEvent {
	return ProgressEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info ProgressEvent.
func NewInfo(stage, message string) ProgressEvent {
	return CreateProgressEvent(EventInfo, stage, message)
}

// NewWarn creates a warn ProgressEvent.
func NewWarn(stage, message string) ProgressEvent {
	return CreateProgressEvent(EventWarn, stage, message)
}

// NewError creates an error ProgressEvent.
func NewError(stage, message string) ProgressEvent {
	return CreateProgressEvent(EventError, stage, message)
}

// NewSuccess creates a success ProgressEvent.
func NewSuccess(stage, message string) ProgressEvent {
	return CreateProgressEvent(EventSuccess, stage, message)
}

// ForChapter returns a copy of the event tagged with a chapter number.
func (e ProgressEvent) ForChapter(number int) ProgressEvent {
	e.Chapter = number
	return e
}

// WithMeta returns a copy of the event with one metadata entry added.
func (e ProgressEvent) WithMeta(key, value string) ProgressEvent {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}
