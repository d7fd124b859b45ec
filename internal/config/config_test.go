package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks all variables read by FromEnv for the duration of the test.
func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "LOG_LEVEL", "GIN_LOGGING", "STORE", "MONGO_URI", "MONGO_DB",
		"DBHOST", "DBUSER", "DBPWD", "DBNAME", "CORS_ORIGINS", "OTEL_ENABLED"} {
		t.Setenv(key, "")
	}
}

// TestFromEnvDefaults expects a Mongo backed development setup without any variables.
func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "minicrm", cfg.MongoDatabase)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.RequestLogging)
	assert.False(t, cfg.TracingEnabled)
	assert.False(t, cfg.Production())
	assert.Empty(t, cfg.LogLevel)
}

// TestFromEnvOverrides expects every variable to be honored.
func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("GIN_LOGGING", "OFF")
	t.Setenv("STORE", "MySQL")
	t.Setenv("DBHOST", "db:3306")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://crm.example.com")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.RequestLogging)
	assert.Equal(t, StoreMySQL, cfg.Store)
	assert.Equal(t, "dirk:bullo92@tcp(db:3306)/test?parseTime=true&clientFoundRows=true", cfg.MySQL.DSN())
	assert.Equal(t, []string{"http://localhost:3000", "https://crm.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.TracingEnabled)
}

// TestFromEnvInvalid expects errors for a non-numeric port and an unknown store.
func TestFromEnvInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	_, err := FromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("STORE", "postgres")
	_, err = FromEnv()
	assert.Error(t, err)
}
