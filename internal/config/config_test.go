package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	// Given: a config file that sets a few values
	path := writeConfig(t, `
log-level: debug
http-port: "8080"
session:
  ttl: 30m
redis:
  mode: external
  host: redis.local
websocket:
  origin-patterns: ["example.com"]
`)

	// When: it is loaded
	conf, err := Load(path)

	// Then: file values win and the rest are defaults
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "8080", conf.HTTPPort)
	assert.Equal(t, "9091", conf.SocketPort)
	assert.Equal(t, "user_session", conf.Session.CookieName)
	assert.Equal(t, 30*time.Minute, conf.Session.TTL)
	assert.False(t, conf.Redis.IsEmbedded())
	assert.Equal(t, "redis.local:6379", conf.Redis.GetRedisAddr())
	assert.Equal(t, []string{"example.com"}, conf.WebSocket.OriginPatterns)
	assert.False(t, conf.Telemetry.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `http-port: "8080"`)
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("REDIS_MODE", "external")

	conf, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "7070", conf.HTTPPort)
	assert.Equal(t, RedisModeExternal, conf.Redis.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	conf, err := Default()

	require.NoError(t, err)
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, "9090", conf.HTTPPort)
	assert.Equal(t, "9091", conf.SocketPort)
	assert.Equal(t, 24*time.Hour, conf.Session.TTL)
	assert.True(t, conf.Redis.IsEmbedded())
	assert.Equal(t, []string{"localhost:*", "127.0.0.1:*"}, conf.WebSocket.OriginPatterns)
	assert.Equal(t, "tictactoe", conf.Telemetry.ServiceName)
	assert.Equal(t, "localhost:4318", conf.Telemetry.Endpoint)
	assert.True(t, conf.Telemetry.Insecure)
}

func TestDefault_InsecureFromEnv(t *testing.T) {
	// Given: the exporter is told to use TLS
	t.Setenv("TELEMETRY_INSECURE", "false")

	// When: no config file is used
	conf, err := Default()

	// Then: the environment wins over the built-in value
	require.NoError(t, err)
	assert.False(t, conf.Telemetry.Insecure)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}
