package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "127.0.0.1:8321", cfg.ListenAddr)
	assert.Equal(t, 500, cfg.ImportBatchSize)
	assert.Equal(t, 100, cfg.MaxSearchLimit)
	assert.True(t, cfg.LocalOnly)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ETEREA_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("ETEREA_IMPORT_BATCH_SIZE", "42")
	t.Setenv("ETEREA_BUSY_TIMEOUT", "2s")
	t.Setenv("ETEREA_LOCAL_ONLY", "false")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, 42, cfg.ImportBatchSize)
	assert.Equal(t, 2*time.Second, cfg.BusyTimeout)
	assert.False(t, cfg.LocalOnly)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eterea.yaml")
	yaml := `
listen_addr: "127.0.0.1:7000"
max_search_limit: 25
allowed_origins:
  - "tauri://localhost"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("ETEREA_CONFIG_FILE", path)

	cfg := Load()

	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddr)
	assert.Equal(t, 25, cfg.MaxSearchLimit)
	assert.Equal(t, []string{"tauri://localhost"}, cfg.AllowedOrigins)
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eterea.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \"127.0.0.1:7000\"\n"), 0o600))
	t.Setenv("ETEREA_CONFIG_FILE", path)
	t.Setenv("ETEREA_LISTEN_ADDR", "127.0.0.1:7001")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:7001", cfg.ListenAddr)
}
