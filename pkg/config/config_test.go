package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if old, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, old) })
		}
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t,
		"APP_NAME", "APP_ENVIRONMENT",
		"SERVER_HOST", "SERVER_PORT",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_DBNAME",
		"REDIS_HOST", "REDIS_PORT",
		"KAFKA_ENABLED", "KAFKA_BROKERS",
		"STORAGE_DRIVER", "STORAGE_BUCKET", "STORAGE_ENDPOINT",
		"SESSION_SECRET", "SESSION_TTL", "SESSION_STORE", "SESSION_COOKIE_NAME",
	)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "pg-management" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "pg-management")
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}

	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want %d", cfg.Redis.Port, 6379)
	}

	if cfg.Storage.Bucket != "payment-proofs" {
		t.Errorf("Storage.Bucket = %q, want %q", cfg.Storage.Bucket, "payment-proofs")
	}

	if cfg.Storage.MaxUploadBytes != 10<<20 {
		t.Errorf("Storage.MaxUploadBytes = %d, want %d", cfg.Storage.MaxUploadBytes, 10<<20)
	}

	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 12*time.Hour)
	}

	if cfg.Session.CookieName != "pgms_session" {
		t.Errorf("Session.CookieName = %q, want %q", cfg.Session.CookieName, "pgms_session")
	}

	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Errorf("Kafka.Brokers = %v, want [localhost:9092]", cfg.Kafka.Brokers)
	}
}

func TestLoad_WithEnvOverride(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_HOST", "db.example.com")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test-app")
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}

	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.example.com")
	}

	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v, want [k1:9092 k2:9092]", cfg.Kafka.Brokers)
	}

	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, "memory")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := cfg.DSN(); dsn != expected {
		t.Errorf("DSN() = %q, want %q", dsn, expected)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	expected := "redis.example.com:6380"
	if addr := cfg.Addr(); addr != expected {
		t.Errorf("Addr() = %q, want %q", addr, expected)
	}
}

func validConfig() Config {
	return Config{
		App:      AppConfig{Name: "test", Environment: "development"},
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Host: "localhost", DBName: "pg"},
		Storage:  StorageConfig{Driver: "memory", Bucket: "payment-proofs"},
		Session:  SessionConfig{Secret: "secret", TTL: time.Hour, Store: "memory"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = -1 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "missing database host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "missing session secret", mutate: func(c *Config) { c.Session.Secret = "" }, wantErr: true},
		{
			name: "default session secret in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Session.Secret = defaultSessionSecret
			},
			wantErr: true,
		},
		{name: "zero session ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: true},
		{name: "unknown session store", mutate: func(c *Config) { c.Session.Store = "file" }, wantErr: true},
		{name: "unknown storage driver", mutate: func(c *Config) { c.Storage.Driver = "gcs" }, wantErr: true},
		{
			name:    "s3 without endpoint",
			mutate:  func(c *Config) { c.Storage.Driver = "s3" },
			wantErr: true,
		},
		{
			name: "kafka enabled without brokers",
			mutate: func(c *Config) {
				c.Kafka.Enabled = true
				c.Kafka.Brokers = nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.App.Environment = "development"
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
}
