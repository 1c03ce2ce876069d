package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TABLE_NAME", "")
	t.Setenv("DYNAMODB_TABLE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "funder", cfg.DynamoDBTable)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5, cfg.BreakerMaxFailures)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TABLE_NAME", "grants")
	t.Setenv("IS_LAMBDA", "yes")
	t.Setenv("BREAKER_MAX_FAILURES", "not a number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "grants", cfg.DynamoDBTable)
	assert.True(t, cfg.IsLambda)
	assert.Equal(t, 5, cfg.BreakerMaxFailures)
}

func TestLoadConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
dynamodb_table: funder-prod
log_level: warn
allowed_origins:
  - https://funder.example.org
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("EVENT_BUS_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "funder-prod", cfg.DynamoDBTable)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"https://funder.example.org"}, cfg.AllowedOrigins)
	// untouched keys keep the environment value
	assert.Equal(t, "funder-events", cfg.EventBusName)
}

func TestLoadConfigFileErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("breaker_max_failures: [1"), 0o644))
	t.Setenv("CONFIG_FILE", bad)
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Environment: "production", DynamoDBTable: "t", EventBusName: "b", BreakerMaxFailures: 1}
	assert.NoError(t, cfg.Validate())

	cfg.DynamoEndpoint = "http://localhost:8000"
	assert.Error(t, cfg.Validate())

	cfg = &Config{Environment: "production", BreakerMaxFailures: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Environment: "development"}
	assert.Error(t, cfg.Validate())
}
