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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret: test-secret
`)
	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 720*time.Hour, cfg.Auth.AccessLifetime())
	assert.Equal(t, 2160*time.Hour, cfg.Auth.RefreshLifetime())
	assert.Equal(t, 5*time.Minute, cfg.Auth.PinLifetime())
	assert.Equal(t, 48*time.Hour, cfg.Auth.ResetMaxAge())
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFile_Full(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  url: postgres://localhost/techwiz?sslmode=disable
redis:
  addr: localhost:6379
  db: 2
email:
  smtp_host: smtp.example.com
  smtp_port: 587
  from_email: noreply@example.com
auth:
  secret: test-secret
  access_ttl: 1h
  refresh_ttl: 24h
  pin_ttl: 10m
  reset_token_max_age: 12h
  frontend_hostname: app.example.com
debug: true
`)
	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/techwiz?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Auth.AccessLifetime())
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshLifetime())
	assert.Equal(t, 10*time.Minute, cfg.Auth.PinLifetime())
	assert.Equal(t, 12*time.Hour, cfg.Auth.ResetMaxAge())
	assert.Equal(t, "app.example.com", cfg.Auth.FrontendHostname)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigFile_SecretRequired(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
`)
	_, err := LoadConfigFile(path)
	assert.ErrorContains(t, err, "auth.secret")
}

func TestLoadConfigFile_BadDuration(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret: test-secret
  pin_ttl: five-minutes
`)
	_, err := LoadConfigFile(path)
	assert.ErrorContains(t, err, "auth.pin_ttl")
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
