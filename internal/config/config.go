package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Environment string
	Host        string
	Port        int
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	StorageBackend string `toml:"storage_backend"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// reference data
	ProgramsPath  string `toml:"programs_path"`
	FoodsPath     string `toml:"foods_path"`
	FoodsFromDB   bool   `toml:"foods_from_db"`
	FoodCacheSize int    `toml:"food_cache_size"`
	// seconds a cached food stays valid, 0 uses the default
	FoodCacheTTLSeconds int `toml:"food_cache_ttl_seconds"`
	// metrics
	PromMetricsHost string `toml:"prom_metrics_host"`
	PromMetricsPort string `toml:"prom_metrics_port"`
	// writes allowed per minute per client, 0 disables rate limiting
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the table for env.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config table for env: %s", env)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for %s: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageMemory
	}
	if c.ProgramsPath == "" {
		c.ProgramsPath = "./assets/programs.toml"
	}
	if c.FoodsPath == "" {
		c.FoodsPath = "./assets/foods.toml"
	}
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageMemory, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage backend [%s]", c.StorageBackend)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("invalid rate limit %d", c.RateLimitPerMinute)
	}
	if c.FoodCacheTTLSeconds < 0 {
		return fmt.Errorf("invalid food cache ttl %d", c.FoodCacheTTLSeconds)
	}
	if c.FoodsFromDB && c.PostgresHost == "" {
		return fmt.Errorf("foods_from_db needs postgres_host")
	}
	return nil
}
