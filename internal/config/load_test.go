package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validEnv sets the minimum environment for Load to succeed.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FLASHDECK_DATABASE_URL", "postgres://localhost:5432/flashdeck_test")
	t.Setenv("FLASHDECK_AUTH_JWT_SECRET", strings.Repeat("s", 32))
}

func TestLoadDefaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenLifetimeMinutes)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.ModelName)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 10, cfg.LLM.MaxCards)
}

func TestLoadEnvOverrides(t *testing.T) {
	validEnv(t)
	t.Setenv("FLASHDECK_SERVER_PORT", "9999")
	t.Setenv("FLASHDECK_SERVER_LOG_LEVEL", "debug")
	t.Setenv("FLASHDECK_LLM_MODEL_NAME", "gemini-2.5-flash")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.ModelName)
}

func TestLoadGeminiKeyFallbackEnvVar(t *testing.T) {
	validEnv(t)
	t.Setenv("GEMINI_API_KEY", "fallback-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.LLM.GeminiAPIKey)
}

func TestLoadMissingGeminiKeyIsAccepted(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.GeminiAPIKey, "key absence surfaces at generation time, not at load")
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("FLASHDECK_AUTH_JWT_SECRET", strings.Repeat("s", 32))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("FLASHDECK_DATABASE_URL", "postgres://localhost:5432/flashdeck_test")
	t.Setenv("FLASHDECK_AUTH_JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	validEnv(t)
	t.Setenv("FLASHDECK_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
