package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Keerthana22gh/pg-management-system/pkg/config"
)

// Config holds Redis client configuration
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
}

// DefaultConfig returns default Redis configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	}
}

// FromConfig builds a Config from the application Redis settings
func FromConfig(c config.RedisConfig) *Config {
	cfg := DefaultConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.Password = c.Password
	cfg.DB = c.DB
	if c.PoolSize > 0 {
		cfg.PoolSize = c.PoolSize
	}
	if c.DialTimeout > 0 {
		cfg.DialTimeout = c.DialTimeout
	}
	if c.ReadTimeout > 0 {
		cfg.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		cfg.WriteTimeout = c.WriteTimeout
	}
	return cfg
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client wraps go-redis so callers get the full command set plus health helpers
type Client struct {
	*redis.Client
}

// NewClient connects and pings Redis
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{Client: rdb}, nil
}

// HealthCheck pings Redis
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}
