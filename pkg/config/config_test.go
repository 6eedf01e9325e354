package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Hub.PingInterval)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  address: ":9090"
hub:
  join_timeout: 1s
auth:
  jwt_secret: "file-secret"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, time.Second, cfg.Hub.JoinTimeout)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	// Untouched values keep their defaults.
	assert.Equal(t, 60*time.Second, cfg.Hub.PongTimeout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INKNET_SERVER_ADDRESS", ":7070")
	t.Setenv("INKNET_JWT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }},
		{"zero ping interval", func(c *Config) { c.Hub.PingInterval = 0 }},
		{"pong not after ping", func(c *Config) { c.Hub.PongTimeout = c.Hub.PingInterval }},
		{"zero join timeout", func(c *Config) { c.Hub.JoinTimeout = 0 }},
		{"zero message size", func(c *Config) { c.Hub.MaxMessageSizeBytes = 0 }},
		{"empty jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"redis enabled without address", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Address = ""
		}},
		{"bad tracing sample rate", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.SampleRate = 2.0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
