package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockVisualizer/internal/cache"
	"StockVisualizer/internal/collector"
	"StockVisualizer/internal/model"
)

// Cache backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Mock           bool   `yaml:"mock"`
	} `yaml:"data_source"`
	Cache struct {
		Backend    string `yaml:"backend"`
		TTLSeconds int    `yaml:"ttl_seconds"`
		SQLitePath string `yaml:"sqlite_path"`
		Redis      struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Symbols struct {
		Allowed []string `yaml:"allowed"`
		Default string   `yaml:"default"`
	} `yaml:"symbols"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Chart struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"chart"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file if present, then
// applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Existing environment wins over .env.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_MOCK"); v != "" {
		c.DataSource.Mock = v == "true" || v == "1"
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Cache.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		c.Symbols.Default = strings.ToUpper(v)
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("CHART_DIR"); v != "" {
		c.Chart.OutputDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = collector.DefaultBaseURL
	}
	if c.DataSource.TimeoutSeconds == 0 {
		c.DataSource.TimeoutSeconds = 30
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendSQLite
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = int(cache.DefaultTTL / time.Second)
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "data/stock_cache.db"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if len(c.Symbols.Allowed) == 0 {
		c.Symbols.Allowed = append([]string(nil), model.DefaultSymbols...)
	}
	if c.Symbols.Default == "" {
		c.Symbols.Default = c.Symbols.Allowed[0]
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.APIKey == "" && !c.DataSource.Mock {
		return fmt.Errorf("data_source.api_key is required (set ALPHAVANTAGE_API_KEY)")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive")
	}
	switch c.Cache.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("cache.backend %q is not one of sqlite, redis, memory", c.Cache.Backend)
	}
	if err := c.SymbolSet().Validate(c.Symbols.Default); err != nil {
		return fmt.Errorf("symbols.default: %w", err)
	}
	return nil
}

// SymbolSet returns the allowed tickers as a set.
func (c *Config) SymbolSet() *model.SymbolSet {
	return model.NewSymbolSet(c.Symbols.Allowed)
}

func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}
