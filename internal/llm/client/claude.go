package client

import (
	"context"
	"fmt"

	claudemodel "github.com/cloudwego/eino-ext/components/model/claude"
)

// NewClaudeClient builds a text generator backed by the Anthropic API.
func NewClaudeClient(ctx context.Context, apiKey string, sampling SamplingConfig) (*LLMClient, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	temperature := float32(sampling.Temperature)
	topP := float32(sampling.TopP)

	cfg := &claudemodel.Config{
		APIKey:      apiKey,
		Model:       sampling.Model,
		MaxTokens:   sampling.MaxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}
	if sampling.TopK > 0 {
		topK := int32(sampling.TopK)
		cfg.TopK = &topK
	}

	chatModel, err := claudemodel.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating claude chat model: %w", err)
	}
	return newLLMClient("claude", chatModel, sampling), nil
}
