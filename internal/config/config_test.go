package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shedwatch.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `provider: postgres
postgres:
  dsn: postgres://shedwatch@localhost:5432/shedwatch
redis:
  addr: localhost:6379
  keyPrefix: "shedwatch:"
feed:
  url: https://example.net/stage-ranges
  interval: 2h
  timeout: 10s
server:
  addr: ":3000"
  apiKey: secret
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Provider)
	assert.Equal(t, "postgres://shedwatch@localhost:5432/shedwatch", cfg.Postgres.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "shedwatch:", cfg.Redis.KeyPrefix)
	assert.Equal(t, ":3000", cfg.Server.Addr)

	interval, err := FeedInterval(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, interval)
	timeout, err := FeedTimeout(cfg)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)
}

func TestLoadDefaults(t *testing.T) {
	dir := writeConfig(t, `provider: memory
feed:
  url: https://example.net/stage-ranges
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	interval, err := FeedInterval(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, interval)
	timeout, err := FeedTimeout(cfg)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "provider: [broken")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing provider",
			content: "feed:\n  url: https://example.net\n",
			wantErr: "provider is required",
		},
		{
			name:    "unknown provider",
			content: "provider: sqlite\nfeed:\n  url: https://example.net\n",
			wantErr: "unknown provider",
		},
		{
			name:    "postgres without dsn",
			content: "provider: postgres\nfeed:\n  url: https://example.net\n",
			wantErr: "postgres.dsn is required",
		},
		{
			name:    "missing feed url",
			content: "provider: memory\n",
			wantErr: "feed.url is required",
		},
		{
			name:    "bad interval",
			content: "provider: memory\nfeed:\n  url: https://example.net\n  interval: often\n",
			wantErr: "feed.interval",
		},
		{
			name:    "redis without addr",
			content: "provider: memory\nfeed:\n  url: https://example.net\nredis:\n  db: 2\n",
			wantErr: "redis.addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.content)
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
