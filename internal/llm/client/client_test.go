package client

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	generateFunc func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
	streamFunc   func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error)
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return f.generateFunc(ctx, input, opts...)
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return f.streamFunc(ctx, input, opts...)
}

func testSampling() SamplingConfig {
	cfg := DefaultSamplingConfig()
	cfg.Timeout = 0
	return cfg
}

func TestGenerateText_ReturnsContent(t *testing.T) {
	fake := &fakeChatModel{
		generateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			if len(input) != 1 {
				t.Fatalf("expected 1 message, got %d", len(input))
			}
			return &schema.Message{Role: schema.Assistant, Content: "a chapter draft"}, nil
		},
	}
	c := newLLMClient("gemini", fake, testSampling())

	got, err := c.GenerateText(context.Background(), []*schema.Message{schema.UserMessage("write")})
	if err != nil {
		t.Fatalf("GenerateText returned error: %v", err)
	}
	if got != "a chapter draft" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestGenerateText_RejectsEmptyOutput(t *testing.T) {
	fake := &fakeChatModel{
		generateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: "   \n\t"}, nil
		},
	}
	c := newLLMClient("gemini", fake, testSampling())

	_, err := c.GenerateText(context.Background(), []*schema.Message{schema.UserMessage("write")})
	if err == nil {
		t.Fatal("expected error for whitespace-only output")
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if genErr.Provider != "gemini" {
		t.Fatalf("unexpected provider: %q", genErr.Provider)
	}
	if !strings.Contains(err.Error(), "no usable text") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestGenerateText_WrapsModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	fake := &fakeChatModel{
		generateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			return nil, boom
		},
	}
	c := newLLMClient("openai", fake, testSampling())

	_, err := c.GenerateText(context.Background(), []*schema.Message{schema.UserMessage("write")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
}

func TestGenerateText_RequiresMessages(t *testing.T) {
	c := newLLMClient("gemini", &fakeChatModel{}, testSampling())
	if _, err := c.GenerateText(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty message list")
	}
}

func TestGenerateText_StreamingDrainsChunks(t *testing.T) {
	fake := &fakeChatModel{
		streamFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
			return schema.StreamReaderFromArray([]*schema.Message{
				{Role: schema.Assistant, Content: "The morning "},
				{Role: schema.Assistant, Content: "the hive "},
				{Role: schema.Assistant, Content: "went quiet."},
			}), nil
		},
	}
	cfg := testSampling()
	cfg.Streaming = true
	c := newLLMClient("gemini", fake, cfg)

	got, err := c.GenerateText(context.Background(), []*schema.Message{schema.UserMessage("write")})
	if err != nil {
		t.Fatalf("GenerateText returned error: %v", err)
	}
	if got != "The morning the hive went quiet." {
		t.Fatalf("chunks not concatenated in order: %q", got)
	}
}

func TestGenerateText_HonorsTimeout(t *testing.T) {
	fake := &fakeChatModel{
		generateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	cfg := testSampling()
	cfg.Timeout = 10 * time.Millisecond
	c := newLLMClient("claude", fake, cfg)

	_, err := c.GenerateText(context.Background(), []*schema.Message{schema.UserMessage("write")})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSamplingConfig_Validate(t *testing.T) {
	if err := DefaultSamplingConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*SamplingConfig)
	}{
		{"empty model", func(c *SamplingConfig) { c.Model = " " }},
		{"temperature too high", func(c *SamplingConfig) { c.Temperature = 2.1 }},
		{"temperature negative", func(c *SamplingConfig) { c.Temperature = -0.1 }},
		{"top_p zero", func(c *SamplingConfig) { c.TopP = 0 }},
		{"top_p above one", func(c *SamplingConfig) { c.TopP = 1.2 }},
		{"negative top_k", func(c *SamplingConfig) { c.TopK = -5 }},
		{"zero max_tokens", func(c *SamplingConfig) { c.MaxTokens = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSamplingConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
