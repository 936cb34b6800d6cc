package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("HISTORY_CAPACITY", "")
	t.Setenv("STATIC_DIR", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Empty(t, cfg.StaticDir)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://chat.example.com, https://staging.example.com")
	t.Setenv("HISTORY_CAPACITY", "100")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"https://chat.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.HistoryCapacity)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_PrivilegedPortRejected(t *testing.T) {
	t.Setenv("PORT", "80")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidHistoryCapacity(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HISTORY_CAPACITY", "-5")

	_, err := LoadConfig()
	assert.Error(t, err)
}
