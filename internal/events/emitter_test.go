package events

import (
	"context"
	"testing"
)

func TestRunFromContext(t *testing.T) {
	ctx := WithRun(context.Background(), "run:abc")
	if got := RunFromContext(ctx); got != "run:abc" {
		t.Fatalf("unexpected run key: %q", got)
	}
	if got := RunFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty run key, got %q", got)
	}
	// Blank keys do not annotate the context.
	ctx = WithRun(context.Background(), "  ")
	if got := RunFromContext(ctx); got != "" {
		t.Fatalf("expected empty run key for blank input, got %q", got)
	}
}

func TestSetCustomEmitterFillsRunKey(t *testing.T) {
	defer SetCustomEmitter(nil)

	var captured ProgressEvent
	SetCustomEmitter(func(ctx context.Context, name string, evt ProgressEvent) {
		captured = evt
	})

	ctx := WithRun(context.Background(), "run:xyz")
	Emit(ctx, RunProgress, NewInfo("generate_outline", "drafting outline"))

	if captured.RunKey != "run:xyz" {
		t.Fatalf("run key not filled from context: %q", captured.RunKey)
	}
	if captured.Stage != "generate_outline" {
		t.Fatalf("unexpected stage: %q", captured.Stage)
	}
	if captured.Type != EventInfo {
		t.Fatalf("unexpected type: %q", captured.Type)
	}
}

func TestSetCustomEmitterKeepsExplicitRunKey(t *testing.T) {
	defer SetCustomEmitter(nil)

	var captured ProgressEvent
	SetCustomEmitter(func(ctx context.Context, name string, evt ProgressEvent) {
		captured = evt
	})

	evt := NewSuccess("export", "book written")
	evt.RunKey = "run:explicit"
	Emit(WithRun(context.Background(), "run:other"), RunDone, evt)

	if captured.RunKey != "run:explicit" {
		t.Fatalf("explicit run key overwritten: %q", captured.RunKey)
	}
}
