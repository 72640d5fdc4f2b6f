package client

import "fmt"

// GenerationError wraps any failure while asking a model for text, keeping
// the provider visible for operator-facing messages.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s text generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
