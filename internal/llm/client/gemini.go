package client

import (
	"context"
	"fmt"

	geminimodel "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"
)

// NewGeminiClient builds a text generator backed by the public Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string, sampling SamplingConfig) (*LLMClient, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	maxTokens := sampling.MaxTokens
	temperature := float32(sampling.Temperature)
	topP := float32(sampling.TopP)

	cfg := &geminimodel.Config{
		Client:      gc,
		Model:       sampling.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}
	if sampling.TopK > 0 {
		topK := int32(sampling.TopK)
		cfg.TopK = &topK
	}

	chatModel, err := geminimodel.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini chat model: %w", err)
	}
	return newLLMClient("gemini", chatModel, sampling), nil
}
