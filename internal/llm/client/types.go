package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

// TextGenerator is the single capability the book workflow needs from a
// model backend: turn a rendered prompt into text.
type TextGenerator interface {
	GenerateText(ctx context.Context, messages []*schema.Message) (string, error)
}

// SamplingConfig carries the model identifier and sampling parameters
// shared by every provider. The zero value is not usable; start from
// DefaultSamplingConfig and override what you need.
type SamplingConfig struct {
	Model       string
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
	Streaming   bool
	BaseURL     string
	Timeout     time.Duration
}

// DefaultSamplingConfig returns the sampling parameters used when nothing
// is configured.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Model:       "gemini-2.5-flash",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        64,
		MaxTokens:   8192,
		Timeout:     2 * time.Minute,
	}
}

func (c SamplingConfig) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2]; got %v", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be within (0, 1]; got %v", c.TopP)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must not be negative; got %d", c.TopK)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive; got %d", c.MaxTokens)
	}
	return nil
}
