package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/upcoming")
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 20, cfg.UpcomingMaxItems)
	assert.Equal(t, 24*time.Hour, cfg.UpcomingExpiryGrace)
	assert.Equal(t, time.Minute, cfg.UpcomingCacheTTL)
	assert.Equal(t, int64(5<<20), cfg.MediaMaxUploadBytes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/upcoming")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("UPCOMING_MAX_ITEMS", "5")
	t.Setenv("UPCOMING_EXPIRY_GRACE", "48h")
	t.Setenv("DB_MAX_CONNS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5, cfg.UpcomingMaxItems)
	assert.Equal(t, 48*time.Hour, cfg.UpcomingExpiryGrace)
	assert.Equal(t, int32(8), cfg.DBMaxConns)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing dsn":    {"DB_DSN": ""},
		"bad max items":  {"UPCOMING_MAX_ITEMS": "many"},
		"zero max items": {"UPCOMING_MAX_ITEMS": "0"},
		"bad grace":      {"UPCOMING_EXPIRY_GRACE": "a day"},
		"bad upload cap": {"MEDIA_MAX_UPLOAD_BYTES": "5MB"},
		"bad cache ttl":  {"UPCOMING_CACHE_TTL": "soon"},
		"zero cache ttl": {"UPCOMING_CACHE_TTL": "0s"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DB_DSN", "postgres://localhost/upcoming")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadLogsMissingDotEnvThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "postgres://localhost/upcoming")

	_, err := Load()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"no .env file loaded"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}
