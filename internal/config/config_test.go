package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Reads the yaml file and fills defaults", func(t *testing.T) {
		// Given: a config file with a few keys
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nstorage: memory\nredis:\n  host: cache\nsearch:\n  parallel: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf := MustLoad(path)

		// Then: file values win and the rest falls back to defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 24*time.Hour, conf.Redis.TTL)
		assert.True(t, conf.Search.Parallel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "X", conf.Game.Opening)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("http-port: \"8000\"\n"), 0o600))
		t.Setenv("HTTP_PORT", "8080")

		conf := MustLoad(path)

		assert.Equal(t, "8080", conf.HTTPPort)
	})

	t.Run("Panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}

func TestMustLoadEnv(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("GAME_OPENING", "O")

	conf := MustLoadEnv()

	assert.Equal(t, StorageMemory, conf.Storage)
	assert.Equal(t, "O", conf.Game.Opening)
	assert.Equal(t, "info", conf.LogLevel)
}
