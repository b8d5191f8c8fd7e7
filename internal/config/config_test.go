package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("TICKET_BACKEND", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ticket-admin", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, BackendMemory, cfg.Data.TicketBackend)
	assert.Equal(t, 50, cfg.Data.TicketCount)
	assert.Equal(t, 200, cfg.Data.LogCount)
	assert.Equal(t, "ko", cfg.I18n.DefaultLocale)
	assert.False(t, cfg.LLM.Enabled())
	assert.False(t, cfg.Auth.Required)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPTIONS_CACHE_TTL_SECONDS", "0")
	t.Setenv("MOCK_TICKET_COUNT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, time.Duration(0), cfg.Options.CacheTTL())
	assert.Equal(t, 50, cfg.Data.TicketCount)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("TICKET_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
}
