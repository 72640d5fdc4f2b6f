package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/models"
	"bookforge/internal/tests/mocks"
)

func startedModelService(t *testing.T, repo *mocks.ModelSettingRepositoryMock) ModelConfigService {
	t.Helper()
	svc := NewModelConfigService(repo)
	require.NoError(t, svc.Startup(context.Background()))
	return svc
}

func TestModelConfigServiceStartupSeedsCatalog(t *testing.T) {
	seeded := map[string]bool{}
	repo := &mocks.ModelSettingRepositoryMock{
		UpsertFunc: func(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
			seeded[modelKey] = enabled
			return &models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}, nil
		},
	}
	startedModelService(t, repo)

	assert.True(t, seeded["gemini|gemini-2.5-flash"])
	assert.True(t, seeded["openai|gpt-5-mini"])
	assert.True(t, seeded["claude|claude-sonnet-4-5-20250929"])
}

func TestModelConfigServiceStartupKeepsStoredSettings(t *testing.T) {
	var seeded []string
	repo := &mocks.ModelSettingRepositoryMock{
		ListFunc: func() ([]models.ModelSetting, error) {
			return []models.ModelSetting{
				{ModelKey: "gemini|gemini-2.5-flash", Provider: "gemini", Enabled: false},
			}, nil
		},
		UpsertFunc: func(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
			seeded = append(seeded, modelKey)
			return &models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}, nil
		},
	}
	svc := startedModelService(t, repo)

	assert.NotContains(t, seeded, "gemini|gemini-2.5-flash",
		"a stored setting must not be re-seeded")

	model, err := svc.GetModel("gemini|gemini-2.5-flash")
	require.NoError(t, err)
	assert.False(t, model.Enabled)
}

func TestModelConfigServiceListModelGroups(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	groups, err := svc.ListModelGroups()
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "gemini", groups[0].ProviderID)
	assert.Equal(t, "Google Gemini", groups[0].ProviderName)
	assert.Equal(t, "openai", groups[1].ProviderID)
	assert.Equal(t, "claude", groups[2].ProviderID)

	require.NotEmpty(t, groups[0].Models)
	for _, mdl := range groups[0].Models {
		assert.Equal(t, "gemini", mdl.ProviderID)
		assert.True(t, mdl.Enabled)
		assert.NotEmpty(t, mdl.APIName)
	}
}

func TestModelConfigServiceSetModelEnabled(t *testing.T) {
	var upsertedKey string
	var upsertedEnabled bool
	repo := &mocks.ModelSettingRepositoryMock{
		UpsertFunc: func(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
			upsertedKey = modelKey
			upsertedEnabled = enabled
			return &models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}, nil
		},
	}
	svc := startedModelService(t, repo)

	model, err := svc.SetModelEnabled("openai|gpt-5-mini", false)
	require.NoError(t, err)
	assert.Equal(t, "openai|gpt-5-mini", upsertedKey)
	assert.False(t, upsertedEnabled)
	assert.False(t, model.Enabled)

	_, err = svc.SetModelEnabled("openai|no-such-model", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestModelConfigServiceSetProviderEnabled(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	updated, err := svc.SetProviderEnabled("claude", false)
	require.NoError(t, err)
	require.NotEmpty(t, updated)
	for _, mdl := range updated {
		assert.Equal(t, "claude", mdl.ProviderID)
		assert.False(t, mdl.Enabled)
	}

	model, err := svc.GetModel("claude|claude-sonnet-4-5-20250929")
	require.NoError(t, err)
	assert.False(t, model.Enabled)
}

func TestModelConfigServiceResolveModelDefault(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	model, err := svc.ResolveModel("gemini", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", model.APIName, "first catalog entry is the provider default")

	model, err = svc.ResolveModel("openai", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", model.APIName)
}

func TestModelConfigServiceResolveModelSkipsDisabledDefault(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	_, err := svc.SetModelEnabled("gemini|gemini-2.5-flash", false)
	require.NoError(t, err)

	model, err := svc.ResolveModel("gemini", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", model.APIName,
		"default selection moves past disabled entries")
}

func TestModelConfigServiceResolveModelByName(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	model, err := svc.ResolveModel("claude", "claude-opus-4-1-20250805")
	require.NoError(t, err)
	assert.Equal(t, "claude-opus-4-1-20250805", model.APIName)
	assert.Equal(t, "Anthropic Claude", model.ProviderName)
}

func TestModelConfigServiceResolveModelErrors(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	_, err := svc.ResolveModel("", "")
	require.EqualError(t, err, "provider is required")

	_, err = svc.ResolveModel("mistral", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")

	_, err = svc.ResolveModel("gemini", "gpt-5-mini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found for provider gemini")

	_, err = svc.SetModelEnabled("openai|gpt-5", false)
	require.NoError(t, err)
	_, err = svc.ResolveModel("openai", "gpt-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestModelConfigServiceResolveModelAllDisabled(t *testing.T) {
	svc := startedModelService(t, &mocks.ModelSettingRepositoryMock{})

	_, err := svc.SetProviderEnabled("gemini", false)
	require.NoError(t, err)

	_, err = svc.ResolveModel("gemini", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no enabled models")
}
