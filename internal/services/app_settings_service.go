package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookforge/internal/book"
	"bookforge/internal/models"
	"bookforge/internal/repositories"
)

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Set(field, value string) (*models.AppSettings, error)
	Startup(ctx context.Context)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	context     context.Context
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) ctx() context.Context {
	if s.context != nil {
		return s.context
	}
	return context.Background()
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	return s.appSettings.Get(s.ctx())
}

// Set updates one stored default by name. Field names match the CLI:
// audience, tone, format, provider, model, output-dir.
func (s *appSettingsService) Set(field, value string) (*models.AppSettings, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	value = strings.TrimSpace(value)
	if field == "" {
		return nil, errors.New("setting name is required")
	}

	current, err := s.appSettings.Get(s.ctx())
	if err != nil {
		return nil, err
	}

	switch field {
	case "audience":
		if value == "" {
			return nil, errors.New("audience is required")
		}
		current.DefaultAudience = value
	case "tone":
		if value == "" {
			return nil, errors.New("tone is required")
		}
		current.DefaultTone = value
	case "format":
		if !book.OutputFormat(value).Valid() {
			return nil, errors.New("format must be 'markdown', 'doc', or 'pdf'")
		}
		current.DefaultFormat = value
	case "provider":
		if value != "gemini" && value != "openai" && value != "claude" {
			return nil, errors.New("provider must be 'gemini', 'openai', or 'claude'")
		}
		current.Provider = value
	case "model":
		current.Model = value
	case "output-dir":
		if value == "" {
			return nil, errors.New("output directory is required")
		}
		current.OutputDir = value
	default:
		return nil, errors.New("unknown setting: " + field)
	}

	current.UpdatedAt = time.Now()
	if err := s.appSettings.Update(s.ctx(), current); err != nil {
		return nil, err
	}

	return current, nil
}
