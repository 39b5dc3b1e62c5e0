package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Batch.Threads)
	assert.False(t, cfg.Batch.SharedPool)
	assert.Equal(t, 4, cfg.Batch.ChunksPerThread)
	assert.Equal(t, "stream:geohash:convert", cfg.Worker.StreamIn)
	assert.Equal(t, time.Second, cfg.Worker.ReadBlock)
}

func TestLoadFrom_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_PORT=9090\nBATCH_THREADS=8\nBATCH_SHARED_POOL=true\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.Threads)
	assert.True(t, cfg.Batch.SharedPool)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("BATCH_MAX_SIZE", "500")
	t.Setenv("WORKER_ENABLED", "true")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Batch.MaxSize)
	assert.True(t, cfg.Worker.Enabled)
}

func TestLoadFrom_InvalidBatchSettings(t *testing.T) {
	t.Setenv("BATCH_THREADS", "-1")

	_, err := LoadFrom("")
	assert.Error(t, err)
}
