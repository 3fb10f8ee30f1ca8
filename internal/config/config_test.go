package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, 50, cfg.Digest.BatchSize)
	assert.Equal(t, 7, cfg.Digest.WindowDays)
	assert.Equal(t, 24*time.Hour, cfg.Subscription.TokenTTL)
	assert.Equal(t, MailProviderResend, cfg.Mail.Provider)
	assert.Equal(t, "root:password@tcp(127.0.0.1:3306)/quoteverse?charset=utf8mb4&loc=Local&parseTime=true", cfg.DSN)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.IsDev())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
env: Production
site:
  url: https://quotes.example.com/
mail:
  provider: Mailjet
  from: digest@example.com
  mailjet:
    public_key: pub
    private_key: priv
digest:
  batch_size: 25
  schedule: "30 7 * * 0"
  lock_ttl: 5m
subscription:
  token_ttl: 12h
redis:
  url: cache.internal:6380/2
alert:
  bark_key: device-key
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://quotes.example.com", cfg.Site.URL)
	assert.Equal(t, MailProviderMailjet, cfg.Mail.Provider)
	assert.Equal(t, "pub", cfg.Mail.Mailjet.PublicKey)
	assert.Equal(t, 25, cfg.Digest.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Digest.LockTTL)
	assert.Equal(t, 12*time.Hour, cfg.Subscription.TokenTTL)
	assert.Equal(t, "redis://cache.internal:6380/2", cfg.RedisURL)
	assert.Equal(t, "device-key", cfg.Alert.BarkKey)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"port":       "port: 70000",
		"provider":   "mail:\n  provider: carrier-pigeon",
		"batch size": "digest:\n  batch_size: -1",
		"schedule":   "digest:\n  schedule: every tuesday",
		"unknown":    "mystery: true",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
