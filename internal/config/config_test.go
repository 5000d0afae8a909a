package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets every variable Load treats as mandatory
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "club")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "sportclub")
	t.Setenv("MEDIA_BASE_PATH", "/var/data/media")
	t.Setenv("API_KEY", "test-api-key")
	// defaults under test must not be overridden by the host environment
	t.Setenv("SERVER_PORT", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
}

func TestLoad(t *testing.T) {
	t.Run("success with defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "/var/data/media", cfg.Media.BasePath)
		assert.Equal(t, "test-api-key", cfg.APIKey)
	})

	t.Run("explicit server settings", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("BASE_URL", "https://club.example.com")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "https://club.example.com", cfg.Server.BaseURL)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("cors origins parsed from comma separated list", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://club.example.com, https://admin.example.com")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, []string{"https://club.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("missing required variable", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_HOST", "")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
	})

	t.Run("missing api key", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("API_KEY", "")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("invalid db port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_PORT", "not-a-number")

		_, err := Load()

		assert.Error(t, err)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "club",
			Password: "secret",
			DBName:   "sportclub",
		},
	}

	dsn := cfg.DSN()

	assert.Equal(t, "club:secret@tcp(localhost:3306)/sportclub?parseTime=true&charset=utf8mb4", dsn)
}
