package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultSessionSecret = "change-me-session-secret"

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	OTel     OTelConfig     `mapstructure:"otel"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda settings for domain events
type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	ClientID    string   `mapstructure:"client_id"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// StorageConfig holds object storage settings for payment proofs
type StorageConfig struct {
	Driver          string `mapstructure:"driver"` // s3 or memory
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	MaxUploadBytes  int64  `mapstructure:"max_upload_bytes"`
}

// SessionConfig holds session cookie and token settings
type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	Issuer       string        `mapstructure:"issuer"`
	Store        string        `mapstructure:"store"` // redis or memory
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// A missing .env is fine; environment variables may carry everything.
	_ = v.ReadInConfig()

	return load(v)
}

// LoadWithPath loads configuration from a specific env file
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pg-management")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_VERSION", "1.0.0")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")

	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "pg_management")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_CONNS", 25)
	v.SetDefault("DATABASE_MIN_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")
	v.SetDefault("DATABASE_MIGRATE_ON_START", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CLIENT_ID", "pg-management")
	v.SetDefault("KAFKA_TOPIC_PREFIX", "pgms.")

	v.SetDefault("STORAGE_DRIVER", "s3")
	v.SetDefault("STORAGE_ENDPOINT", "http://localhost:9000")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_BUCKET", "payment-proofs")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "")
	v.SetDefault("STORAGE_USE_PATH_STYLE", true)
	v.SetDefault("STORAGE_MAX_UPLOAD_BYTES", 10<<20)

	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE_NAME", "pgms_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_ISSUER", "pg-management")
	v.SetDefault("SESSION_STORE", "redis")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "pg-management")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

func bindConfig(v *viper.Viper, cfg *Config) {
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Version = v.GetString("APP_VERSION")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")
	cfg.Server.ShutdownTimeout = v.GetDuration("SERVER_SHUTDOWN_TIMEOUT")

	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxConns = v.GetInt32("DATABASE_MAX_CONNS")
	cfg.Database.MinConns = v.GetInt32("DATABASE_MIN_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")
	cfg.Database.ConnMaxIdleTime = v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME")
	cfg.Database.MigrateOnStart = v.GetBool("DATABASE_MIGRATE_ON_START")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	cfg.Kafka.Enabled = v.GetBool("KAFKA_ENABLED")
	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")
	cfg.Kafka.TopicPrefix = v.GetString("KAFKA_TOPIC_PREFIX")

	cfg.Storage.Driver = v.GetString("STORAGE_DRIVER")
	cfg.Storage.Endpoint = v.GetString("STORAGE_ENDPOINT")
	cfg.Storage.Region = v.GetString("STORAGE_REGION")
	cfg.Storage.Bucket = v.GetString("STORAGE_BUCKET")
	cfg.Storage.AccessKeyID = v.GetString("STORAGE_ACCESS_KEY_ID")
	cfg.Storage.SecretAccessKey = v.GetString("STORAGE_SECRET_ACCESS_KEY")
	cfg.Storage.PublicBaseURL = v.GetString("STORAGE_PUBLIC_BASE_URL")
	cfg.Storage.UsePathStyle = v.GetBool("STORAGE_USE_PATH_STYLE")
	cfg.Storage.MaxUploadBytes = v.GetInt64("STORAGE_MAX_UPLOAD_BYTES")

	cfg.Session.Secret = v.GetString("SESSION_SECRET")
	cfg.Session.TTL = v.GetDuration("SESSION_TTL")
	cfg.Session.CookieName = v.GetString("SESSION_COOKIE_NAME")
	cfg.Session.CookieSecure = v.GetBool("SESSION_COOKIE_SECURE")
	cfg.Session.Issuer = v.GetString("SESSION_ISSUER")
	cfg.Session.Store = v.GetString("SESSION_STORE")

	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Output = v.GetString("LOG_OUTPUT")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if c.IsProduction() && c.Session.Secret == defaultSessionSecret {
		return fmt.Errorf("session secret must be changed in production")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown session store: %q", c.Session.Store)
	}

	switch c.Storage.Driver {
	case "s3":
		if c.Storage.Endpoint == "" && c.Storage.PublicBaseURL == "" {
			return fmt.Errorf("storage endpoint or public base url is required for the s3 driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
