package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/popchart/internal/pkg/resas"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, resas.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, uint64(3), cfg.API.Retries)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Empty(t, cfg.PostgresDSN)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "popchart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://localhost:9000/api/v1/
  retries: 1
server:
  addr: ":9999"
cache:
  ttl: 1h
`), 0o600))
	t.Setenv("POPCHART_API_KEY", "from-env")
	t.Setenv("POPCHART_SERVER_ADDR", ":7070")

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api/v1/", cfg.API.BaseURL)
	assert.Equal(t, uint64(1), cfg.API.Retries)
	assert.Equal(t, "from-env", cfg.API.APIKey)
	assert.Equal(t, ":7070", cfg.ServerAddr)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := &Config{API: resas.Config{BaseURL: "ftp://example.com"}, ServerAddr: ":8080"}
	assert.Error(t, cfg.Validate())
}
