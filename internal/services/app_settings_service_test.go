package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/models"
	"bookforge/internal/tests/mocks"
)

func TestAppSettingsServiceGet(t *testing.T) {
	stored := &models.AppSettings{
		ID:              1,
		Version:         1,
		DefaultAudience: "retired engineers",
		DefaultTone:     "wry",
		DefaultFormat:   "pdf",
	}
	repo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return stored, nil
		},
	}
	svc := NewAppSettingsService(repo)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "retired engineers", settings.DefaultAudience)
	assert.Equal(t, "wry", settings.DefaultTone)
	assert.Equal(t, "pdf", settings.DefaultFormat)
}

func TestAppSettingsServiceGetRepositoryError(t *testing.T) {
	repo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return nil, errors.New("database error")
		},
	}
	svc := NewAppSettingsService(repo)

	_, err := svc.Get()
	require.EqualError(t, err, "database error")
}

func TestAppSettingsServiceSet(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
		check func(t *testing.T, s *models.AppSettings)
	}{
		{"audience", "audience", "curious teens", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "curious teens", s.DefaultAudience)
		}},
		{"tone", "tone", "playful", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "playful", s.DefaultTone)
		}},
		{"format", "format", "pdf", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "pdf", s.DefaultFormat)
		}},
		{"provider", "provider", "claude", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "claude", s.Provider)
		}},
		{"model", "model", "claude-sonnet-4-5-20250929", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "claude-sonnet-4-5-20250929", s.Model)
		}},
		{"output dir", "output-dir", "/tmp/books", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "/tmp/books", s.OutputDir)
		}},
		{"field name is case insensitive", "Audience", "curious teens", func(t *testing.T, s *models.AppSettings) {
			assert.Equal(t, "curious teens", s.DefaultAudience)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var saved *models.AppSettings
			repo := &mocks.AppSettingsRepositoryMock{
				UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
					saved = settings
					return nil
				},
			}
			svc := NewAppSettingsService(repo)

			updated, err := svc.Set(tc.field, tc.value)
			require.NoError(t, err)
			require.NotNil(t, saved, "update should reach the repository")
			assert.Same(t, saved, updated)
			assert.False(t, updated.UpdatedAt.IsZero())
			tc.check(t, updated)
		})
	}
}

func TestAppSettingsServiceSetRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		field   string
		value   string
		wantErr string
	}{
		{"empty field", "", "x", "setting name is required"},
		{"unknown field", "theme", "dark", "unknown setting: theme"},
		{"empty audience", "audience", "", "audience is required"},
		{"empty tone", "tone", "  ", "tone is required"},
		{"bad format", "format", "epub", "format must be 'markdown', 'doc', or 'pdf'"},
		{"bad provider", "provider", "mistral", "provider must be 'gemini', 'openai', or 'claude'"},
		{"empty output dir", "output-dir", "", "output directory is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			updates := 0
			repo := &mocks.AppSettingsRepositoryMock{
				UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
					updates++
					return nil
				},
			}
			svc := NewAppSettingsService(repo)

			_, err := svc.Set(tc.field, tc.value)
			require.EqualError(t, err, tc.wantErr)
			assert.Zero(t, updates, "invalid input must not be persisted")
		})
	}
}

func TestAppSettingsServiceSetUpdateError(t *testing.T) {
	repo := &mocks.AppSettingsRepositoryMock{
		UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
			return errors.New("update error")
		},
	}
	svc := NewAppSettingsService(repo)

	_, err := svc.Set("tone", "dry")
	require.EqualError(t, err, "update error")
}
