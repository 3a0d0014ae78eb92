package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, uint16(8085), cfg.HttpServerPort)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "jchat_session", cfg.SessionCookieName)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "lobby", cfg.LobbyID)
	assert.Equal(t, "Lobby", cfg.LobbyName)
	assert.Equal(t, 30*time.Second, cfg.WsPingPeriod)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("WS_SEND_BUFFER", "8")

	cfg, err := parse()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, "cache", cfg.RedisHost)
	assert.Equal(t, uint16(6380), cfg.RedisPort)
	assert.Equal(t, 8, cfg.WsSendBuffer)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown store", "SESSION_STORE", "postgres"},
		{"port below range", "HTTP_SERVER_PORT", "80"},
		{"empty send buffer", "WS_SEND_BUFFER", "0"},
		{"ping slower than pong", "WS_PING_PERIOD", "90s"},
		{"malformed duration", "SESSION_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := parse()
			assert.Error(t, err)
		})
	}
}
