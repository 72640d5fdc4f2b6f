package client

import (
	"context"
	"fmt"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
)

// NewOpenAIClient builds a text generator backed by the OpenAI chat API.
// BaseURL, when set, points the client at an OpenAI-compatible gateway.
func NewOpenAIClient(ctx context.Context, apiKey string, sampling SamplingConfig) (*LLMClient, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	maxTokens := sampling.MaxTokens
	temperature := float32(sampling.Temperature)
	topP := float32(sampling.TopP)

	// The OpenAI API has no top_k parameter.
	chatModel, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     sampling.BaseURL,
		Model:       sampling.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
		Timeout:     sampling.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating openai chat model: %w", err)
	}
	return newLLMClient("openai", chatModel, sampling), nil
}
