package services

import (
	"context"
	"fmt"
	"strings"

	"bookforge/internal/llm/client"
	"bookforge/internal/models"
)

// ClientService turns a provider/model selection into a ready LLM client.
// It resolves the catalog entry, fetches the provider's API key and builds
// the matching eino chat model.
type ClientService struct {
	context        context.Context
	keyringService *KeyringService
	modelConfigs   ModelConfigService
}

func NewClientService(keyringService *KeyringService, modelConfigs ModelConfigService) *ClientService {
	return &ClientService{
		keyringService: keyringService,
		modelConfigs:   modelConfigs,
	}
}

func (s *ClientService) Startup(ctx context.Context) error {
	s.context = ctx
	if s.keyringService == nil {
		return fmt.Errorf("keyring service not configured")
	}
	if s.modelConfigs == nil {
		return fmt.Errorf("model configuration service not configured")
	}
	return nil
}

// Build instantiates an LLM client for the given provider and model API
// name. An empty apiName selects the provider's default catalog model. The
// sampling config's Model field is overwritten with the resolved API name.
func (s *ClientService) Build(ctx context.Context, provider, apiName string, sampling client.SamplingConfig) (client.TextGenerator, *models.LLMModel, error) {
	if s.keyringService == nil {
		return nil, nil, fmt.Errorf("keyring service not configured")
	}
	if s.modelConfigs == nil {
		return nil, nil, fmt.Errorf("model configuration service not configured")
	}

	provider = strings.TrimSpace(provider)
	if provider == "" {
		provider = "gemini"
	}

	model, err := s.modelConfigs.ResolveModel(provider, apiName)
	if err != nil {
		return nil, nil, err
	}

	apiKey, err := s.keyringService.ResolveApiKey(provider)
	if err != nil {
		return nil, nil, err
	}

	sampling.Model = model.APIName

	var (
		llmClient *client.LLMClient
		createErr error
	)
	switch provider {
	case "gemini":
		llmClient, createErr = client.NewGeminiClient(ctx, apiKey, sampling)
	case "openai":
		llmClient, createErr = client.NewOpenAIClient(ctx, apiKey, sampling)
	case "claude":
		llmClient, createErr = client.NewClaudeClient(ctx, apiKey, sampling)
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if createErr != nil {
		return nil, nil, fmt.Errorf("failed to create %s client: %w", provider, createErr)
	}

	return llmClient, model, nil
}
