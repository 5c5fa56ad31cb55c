package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediwallet/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEDIWALLET_SHARE_SECRET", "s3cret")

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Polling.ChatInterval)
	assert.Equal(t, 5*time.Second, cfg.Polling.ConversationsInterval)
	assert.Equal(t, 48*time.Hour, cfg.Share.MaxDuration)
	assert.True(t, cfg.Platform.LocalStorage)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MEDIWALLET_SHARE_SECRET", "s3cret")
	t.Setenv("MEDIWALLET_HTTP_PORT", "9090")
	t.Setenv("MEDIWALLET_POLLING_CHAT_INTERVAL", "500ms")
	t.Setenv("MEDIWALLET_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Polling.ChatInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediwallet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  url: postgres://localhost/mediwallet
share:
  secret: from-file
  max_duration: 12h
platform:
  local_storage: true
`), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "from-file", cfg.Share.Secret)
	assert.Equal(t, 12*time.Hour, cfg.Share.MaxDuration)
}

func TestValidate(t *testing.T) {
	t.Run("SecretRequired", func(t *testing.T) {
		_, err := config.LoadFile("")
		assert.Error(t, err)
	})

	t.Run("SecretOptionalWithoutLocalStorage", func(t *testing.T) {
		t.Setenv("MEDIWALLET_PLATFORM_LOCAL_STORAGE", "false")
		_, err := config.LoadFile("")
		assert.NoError(t, err)
	})

	t.Run("MaxDurationBounded", func(t *testing.T) {
		t.Setenv("MEDIWALLET_SHARE_SECRET", "x")
		t.Setenv("MEDIWALLET_SHARE_MAX_DURATION", "72h")
		_, err := config.LoadFile("")
		assert.Error(t, err)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		t.Setenv("MEDIWALLET_SHARE_SECRET", "x")
		t.Setenv("MEDIWALLET_DATABASE_DRIVER", "mysql")
		_, err := config.LoadFile("")
		assert.Error(t, err)
	})
}
