package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/models"
	"bookforge/internal/services"
	"bookforge/internal/tests/mocks"
)

func TestSettingsCommandShowsDefaults(t *testing.T) {
	runs := &stubRunService{}

	out, err := runCommand(t, newTestApp(t, runs), "settings")
	require.NoError(t, err)

	assert.Contains(t, out, "general readers")
	assert.Contains(t, out, "professional but conversational")
	assert.Contains(t, out, "doc")
	// No provider or model pinned yet.
	assert.Contains(t, out, "(unset)")
}

func TestSettingsSetCommand(t *testing.T) {
	var saved *models.AppSettings
	repo := &mocks.AppSettingsRepositoryMock{
		UpdateFunc: func(_ context.Context, settings *models.AppSettings) error {
			saved = settings
			return nil
		},
	}

	app := newTestApp(t, &stubRunService{})
	app.Services.Settings = services.NewAppSettingsService(repo)

	out, err := runCommand(t, app, "settings", "set", "tone", "dry")
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, "dry", saved.DefaultTone)
	assert.Contains(t, out, "tone = dry")
}

func TestSettingsSetCommandRejectsUnknownName(t *testing.T) {
	_, err := runCommand(t, newTestApp(t, &stubRunService{}), "settings", "set", "theme", "dark")
	assert.EqualError(t, err, "unknown setting: theme")
}

func TestSettingsSetCommandRejectsBadFormat(t *testing.T) {
	_, err := runCommand(t, newTestApp(t, &stubRunService{}), "settings", "set", "format", "epub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be")
}
