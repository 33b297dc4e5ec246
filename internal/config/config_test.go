package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USERNAME", "user")
	t.Setenv("REDDIT_PASSWORD", "pass")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "")
	t.Setenv("REDDIT_TRANSPORT", "")
	t.Setenv("REFRESH_INTERVAL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "browser", cfg.RedditTransport)
	assert.Equal(t, 600, cfg.RefreshInterval)
	assert.Equal(t, "id", cfg.RedditClientID)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("REDDIT_CLIENT_SECRET", "")
	t.Setenv("REDDIT_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDDIT_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "REDDIT_PASSWORD")
}

func TestLoadConfigInvalidTransport(t *testing.T) {
	setRequired(t)
	t.Setenv("REDDIT_TRANSPORT", "carrier-pigeon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDDIT_TRANSPORT")
}

func TestLoadConfigBadIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.APIPort)
}
