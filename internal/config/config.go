package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Secret       string        `yaml:"secret" env:"WEBHOOK_SECRET"`
	Tolerance    time.Duration `yaml:"tolerance" env:"WEBHOOK_TOLERANCE"`
	KeyCacheSize int           `yaml:"key_cache_size" env:"WEBHOOK_KEY_CACHE_SIZE"`
	LogLevel     string        `yaml:"log_level" env:"WEBHOOK_LOG_LEVEL"`
	Server       Server        `yaml:"server" envPrefix:"WEBHOOK_SERVER_"`
	Redis        Redis         `yaml:"redis" envPrefix:"WEBHOOK_REDIS_"`
}

type Server struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	Path         string        `yaml:"path" env:"PATH"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	ReplayMemory int           `yaml:"replay_memory_entries" env:"REPLAY_MEMORY_ENTRIES"`
}

// Redis enables the shared replay guard when Addr is set.
type Redis struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	Password  string `yaml:"password" env:"PASSWORD"`
	DB        int    `yaml:"db" env:"DB"`
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`
}

func Default() Config {
	return Config{
		Tolerance:    5 * time.Minute,
		KeyCacheSize: 16,
		LogLevel:     "info",
		Server: Server{
			Addr:         ":8080",
			Path:         "/webhooks",
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  10 * time.Second,
		},
	}
}

// Load reads defaults, then the YAML file at path (skipped when empty), then
// WEBHOOK_* environment variables. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	if c.KeyCacheSize < 0 {
		return fmt.Errorf("key_cache_size must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative")
	}
	return nil
}
