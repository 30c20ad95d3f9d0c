package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/redis/go-redis/v9"
)

// Config holds configuration for the inventory module.
type Config struct {
	// Redis change stream
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDatabase   int    `env:"REDIS_DATABASE" envDefault:"0"`
	StreamMaxLength int64  `env:"REDIS_STREAM_MAX_LENGTH" envDefault:"10000"`

	// EventsEnabled toggles change event publication (Redis stream +
	// websocket push). The reconciliation path does not depend on it.
	EventsEnabled bool `env:"INVENTORY_EVENTS_ENABLED" envDefault:"true"`
}

// LoadConfig loads the inventory configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load inventory configuration: %w", err)
	}
	return cfg, nil
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// NewRedisClient creates a Redis client from the module configuration.
func NewRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDatabase,

		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})
}
