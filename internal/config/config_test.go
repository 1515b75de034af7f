package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ALPHAVANTAGE_API_KEY", "ALPHAVANTAGE_BASE_URL", "DATA_SOURCE_MOCK", "CACHE_BACKEND",
		"CACHE_TTL_SECONDS", "SQLITE_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "DEFAULT_SYMBOL",
		"REFRESH_CRON", "CHART_DIR", "LOG_LEVEL", "HTTPS_PROXY",
	} {
		t.Setenv(k, "")
	}
	// Keep a developer's .env out of the test.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://www.alphavantage.co", cfg.DataSource.BaseURL)
	assert.Equal(t, BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 86400, cfg.Cache.TTLSeconds)
	assert.Len(t, cfg.Symbols.Allowed, 14)
	assert.Equal(t, "MSFT", cfg.Symbols.Default)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Error(t, cfg.Validate(), "api key is required")
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_source:
  api_key: from-yaml
cache:
  backend: memory
  ttl_seconds: 600
symbols:
  allowed: [AAPL, IBM]
  default: IBM
`), 0o644))
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "from-env", cfg.DataSource.APIKey)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 120, cfg.Cache.TTLSeconds)
	assert.Equal(t, []string{"AAPL", "IBM"}, cfg.SymbolSet().List())
	assert.Equal(t, "IBM", cfg.Symbols.Default)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("ALPHAVANTAGE_API_KEY")
	require.NoError(t, os.WriteFile(".env", []byte("ALPHAVANTAGE_API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ALPHAVANTAGE_API_KEY") })

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.DataSource.APIKey)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load("missing.yaml")
		require.NoError(t, err)
		cfg.DataSource.APIKey = "k"
		return cfg
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Symbols.Default = "DOGE"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Cache.Backend = "etcd"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Cache.TTLSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.DataSource.APIKey = ""
	cfg.DataSource.Mock = true
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
