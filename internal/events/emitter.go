package events

import (
	"context"
)

// Emit publishes an event on the named channel. The default emitter drops
// everything; callers install a real one with SetCustomEmitter.
var Emit = func(ctx context.Context, name string, evt ProgressEvent) {}

// SetCustomEmitter replaces the process-wide emitter. Passing nil restores
// the no-op emitter. The run key from ctx is filled in automatically when
// the event does not carry one.
func SetCustomEmitter(f func(ctx context.Context, name string, evt ProgressEvent)) {
	if f == nil {
		Emit = func(context.Context, string, ProgressEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt ProgressEvent) {
		if evt.RunKey == "" {
			if run := RunFromContext(ctx); run != "" {
				evt.RunKey = run
			}
		}
		f(ctx, name, evt)
	}
}
