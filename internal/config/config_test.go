package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads the yml file", func(t *testing.T) {
		// Given: a config file with a few overrides
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte("log-level: debug\nsocket-port: \"7000\"\nredis:\n  enabled: true\n  host: cache\nnats:\n  subject: arena\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		// When: it is loaded
		conf, err := Load(path)

		// Then: file values win and the rest fall back to defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "7000", conf.SocketPort)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.False(t, conf.NATS.Enabled)
		assert.Equal(t, "arena", conf.NATS.Subject)
		assert.Equal(t, 256, conf.Relay.Buffer)
		assert.Equal(t, int64(512), conf.WebSocket.MaxMessageSize)
	})

	t.Run("Falls back to the environment when the file is missing", func(t *testing.T) {
		// Given: only environment variables
		t.Setenv("PORT", "3000")
		t.Setenv("NATS_ENABLED", "true")

		// When: a missing file is loaded
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: PORT drives the HTTP port
		require.NoError(t, err)
		assert.Equal(t, "3000", conf.HTTPPort)
		assert.True(t, conf.NATS.Enabled)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, 64, conf.WebSocket.SendBuffer)
	})

	t.Run("Invalid file returns an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("relay:\n  buffer: lots\n"), 0o600))

		_, err := Load(path)

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(path) })
	})
}
