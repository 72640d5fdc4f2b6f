package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newTestKeyringService(t *testing.T) *KeyringService {
	t.Helper()
	keyring.MockInit()
	// providers.json lands under the user config dir; keep it in the
	// test sandbox.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return NewKeyringService()
}

func TestKeyringServiceStoreAndGet(t *testing.T) {
	svc := newTestKeyringService(t)

	require.NoError(t, svc.StoreApiKey("gemini", []byte("secret-key")))

	key, err := svc.GetApiKey("gemini")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)
}

func TestKeyringServiceStoreValidation(t *testing.T) {
	svc := newTestKeyringService(t)

	require.EqualError(t, svc.StoreApiKey("gemini", nil), "API key is empty")
	require.EqualError(t, svc.StoreApiKey("", []byte("x")), "provider is required")
}

func TestKeyringServiceResolvePrefersKeyring(t *testing.T) {
	svc := newTestKeyringService(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	require.NoError(t, svc.StoreApiKey("gemini", []byte("from-keyring")))

	key, err := svc.ResolveApiKey("gemini")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", key)
}

func TestKeyringServiceResolveFallsBackToEnv(t *testing.T) {
	svc := newTestKeyringService(t)
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	key, err := svc.ResolveApiKey("claude")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestKeyringServiceResolveMissingEverywhere(t *testing.T) {
	svc := newTestKeyringService(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := svc.ResolveApiKey("openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bookforge keys set openai")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestKeyringServiceDelete(t *testing.T) {
	svc := newTestKeyringService(t)

	require.NoError(t, svc.StoreApiKey("openai", []byte("secret")))
	require.NoError(t, svc.DeleteApiKey("openai"))

	_, err := svc.GetApiKey("openai")
	require.Error(t, err)
}

func TestKeyringServiceListApiKeys(t *testing.T) {
	svc := newTestKeyringService(t)

	require.NoError(t, svc.StoreApiKey("gemini", []byte("a")))
	require.NoError(t, svc.StoreApiKey("claude", []byte("b")))
	require.NoError(t, svc.DeleteApiKey("claude"))

	entries, err := svc.ListApiKeys()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gemini", entries[0]["provider"])
	assert.Contains(t, entries[0]["description"], "gemini")
}
