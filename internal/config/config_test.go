package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
	assert.False(t, cfg.Relay.Enabled)
	assert.Equal(t, "nats://localhost:4222", cfg.Relay.URL)
	assert.Equal(t, "SPINDOWN_EVENTS", cfg.Relay.Stream)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  allowed_origins:
    - https://spindown.app
relay:
  enabled: true
  url: nats://broker:4222
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://spindown.app"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Relay.Enabled)
	assert.Equal(t, "nats://broker:4222", cfg.Relay.URL)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "SPINDOWN_EVENTS", cfg.Relay.Stream)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not: a: mapping")
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7001")
	t.Setenv("RELAY_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://env:4222")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.True(t, cfg.Relay.Enabled)
	assert.Equal(t, "nats://env:4222", cfg.Relay.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvBeatsFile(t *testing.T) {
	t.Setenv("PORT", "7001")
	path := writeConfigFile(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", ServerConfig{Port: 8080}.Addr())
	assert.Equal(t, "10.0.0.5:9090", ServerConfig{Host: "10.0.0.5", Port: 9090}.Addr())
}
