package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkeating27/Red-Crafter/internal/config"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_OverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
universalis_base_url: "http://localhost:8765"
cache:
  ttl_seconds: 120
  redis_addr: "localhost:6379"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "http://localhost:8765", cfg.UniversalisBaseURL)
	assert.Equal(t, "data/recipes.json", cfg.RecipesPath, "unset fields keep defaults")
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestLoad_MalformedYAMLIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestCacheTTL_ZeroMeansDisabled(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())
}
