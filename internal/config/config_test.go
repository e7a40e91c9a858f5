package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, "https://restcountries.com", cfg.API.BaseURL)
	assert.Equal(t, "/v3.1/all", cfg.API.Path)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "http://clients3.google.com/generate_204", cfg.Probe.URL)
	assert.Equal(t, time.Second, cfg.Probe.Timeout)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "countries_data", cfg.Cache.Dir)
	assert.Equal(t, "countries.sqlite", cfg.Cache.File)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "countries_fetcher", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 10*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("COUNTRIES_CACHE_DSN", "postgres://user:pass@db:5432/countries?sslmode=disable")
	t.Setenv("COUNTRIES_AMQP_URL", "amqp://user:pass@mq:5672/")

	data := []byte(`
api:
  base_url: https://countries.internal
  timeout: 5s
cache:
  driver: postgres
  dsn: ${COUNTRIES_CACHE_DSN}
rabbitmq:
  enabled: true
  url: ${COUNTRIES_AMQP_URL}
watch:
  interval: 1m
log_level: debug
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "https://countries.internal", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "postgres", cfg.Cache.Driver)
	assert.Equal(t, "postgres://user:pass@db:5432/countries?sslmode=disable", cfg.Cache.DSN)
	assert.True(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "amqp://user:pass@mq:5672/", cfg.RabbitMQ.URL)
	assert.Equal(t, time.Minute, cfg.Watch.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"malformed yaml", "api: [unclosed"},
		{"unknown driver", "cache:\n  driver: mysql\n"},
		{"postgres without dsn", "cache:\n  driver: postgres\n"},
		{"relative api path", "api:\n  path: v3.1/all\n"},
		{"bad base url", "api:\n  base_url: not a url\n"},
		{"unknown log level", "log_level: verbose\n"},
		{"watch interval too short", "watch:\n  interval: 10ms\n"},
		{"negative probe timeout", "probe:\n  timeout: -1s\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.data))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  dir: /var/lib/countries\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/countries", cfg.Cache.Dir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
