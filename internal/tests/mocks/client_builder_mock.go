package mocks

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"bookforge/internal/llm/client"
	"bookforge/internal/models"
)

// TextGeneratorFunc adapts a plain function to client.TextGenerator.
type TextGeneratorFunc func(ctx context.Context, messages []*schema.Message) (string, error)

func (f TextGeneratorFunc) GenerateText(ctx context.Context, messages []*schema.Message) (string, error) {
	return f(ctx, messages)
}

type ClientBuilderMock struct {
	BuildFunc func(ctx context.Context, provider, apiName string, sampling client.SamplingConfig) (client.TextGenerator, *models.LLMModel, error)
}

func (m *ClientBuilderMock) Build(ctx context.Context, provider, apiName string, sampling client.SamplingConfig) (client.TextGenerator, *models.LLMModel, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, provider, apiName, sampling)
	}
	generator := TextGeneratorFunc(func(context.Context, []*schema.Message) (string, error) {
		return "", nil
	})
	return generator, &models.LLMModel{
		Key:        provider + "|" + apiName,
		APIName:    apiName,
		ProviderID: provider,
		Enabled:    true,
	}, nil
}
