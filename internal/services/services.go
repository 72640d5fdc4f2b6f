package services

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"bookforge/internal/config"
	"bookforge/internal/prompts"
	"bookforge/internal/repositories"
)

// Services bundles every service the commands and the HTTP server use.
type Services struct {
	Settings     AppSettingsService
	ModelConfigs ModelConfigService
	Keyring      *KeyringService
	Clients      *ClientService
	Runs         BookRunService
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *Services {
	runRepo := repositories.NewBookRunRepository(db)
	settingsRepo := repositories.NewAppSettingsRepository(db)
	modelRepo := repositories.NewModelSettingRepository(db)

	keyring := NewKeyringService()
	modelConfigs := NewModelConfigService(modelRepo)
	clients := NewClientService(keyring, modelConfigs)
	settings := NewAppSettingsService(settingsRepo)
	runs := NewBookRunService(cfg, runRepo, clients, settings, prompts.NewRegistry(), logger)

	return &Services{
		Settings:     settings,
		ModelConfigs: modelConfigs,
		Keyring:      keyring,
		Clients:      clients,
		Runs:         runs,
	}
}

// Startup initializes every service that needs it, in dependency order.
func (s *Services) Startup(ctx context.Context) error {
	s.Settings.Startup(ctx)
	if err := s.ModelConfigs.Startup(ctx); err != nil {
		return err
	}
	if err := s.Clients.Startup(ctx); err != nil {
		return err
	}
	return s.Runs.Startup(ctx)
}
