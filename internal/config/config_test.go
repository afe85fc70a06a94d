package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	configFileEnv,
	"APP_MODE",
	"APP_PORT",
	"PARKING_CAPACITY",
	"OTEL_SERVICE_NAME",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"SCOUT_ENVIRONMENT",
	"LOG_LEVEL",
	"SHUTDOWN_TIMEOUT_SECONDS",
}

func unsetEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cli", cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0, cfg.Capacity)
	assert.Equal(t, "parking-allocator", cfg.OTelServiceName)
	assert.Equal(t, "http://localhost:4318", cfg.OTelEndpoint)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	unsetEnv(t)
	t.Setenv("APP_MODE", "server")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PARKING_CAPACITY", "6")
	t.Setenv("OTEL_SERVICE_NAME", "lot-east")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "server", cfg.Mode)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 6, cfg.Capacity)
	assert.Equal(t, "lot-east", cfg.OTelServiceName)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestInvalidNumericFallsBackToDefault(t *testing.T) {
	unsetEnv(t)
	t.Setenv("PARKING_CAPACITY", "six")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromFileThenEnv(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), "parking.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: both
port: "7070"
capacity: 12
environment: production
shutdown_timeout: 30s
`), 0o600))
	t.Setenv(configFileEnv, path)
	t.Setenv("APP_PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "both", cfg.Mode)
	assert.Equal(t, "7171", cfg.Port)
	assert.Equal(t, 12, cfg.Capacity)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "parking-allocator", cfg.OTelServiceName)
}

func TestLoadMissingFile(t *testing.T) {
	unsetEnv(t)
	t.Setenv(configFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), "parking.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: [1, 2"), 0o600))
	t.Setenv(configFileEnv, path)

	_, err := Load()
	assert.ErrorContains(t, err, "parse config file")
}

func TestFileShutdownTimeoutKeepsSubSecondPrecision(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), "parking.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shutdown_timeout: 1500ms\n"), 0o600))
	t.Setenv(configFileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.ShutdownTimeout)

	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "4")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, cfg.ShutdownTimeout)
}
