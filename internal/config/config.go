package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/ShaikhZaamir/vendor-portal/pkg/config"
	"github.com/ShaikhZaamir/vendor-portal/pkg/database"
)

const devJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the vendor portal service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"vendor-portal"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost     string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int           `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string        `env:"POSTGRES_USER" envDefault:"vendor_portal"`
	PostgresPass     string        `env:"POSTGRES_PASSWORD" envDefault:"vendor_portal"`
	PostgresDB       string        `env:"POSTGRES_DB" envDefault:"vendor_portal"`
	PostgresSSL      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PostgresMaxConns int32         `env:"POSTGRES_MAX_CONNS" envDefault:"20"`
	SlowQuery        time.Duration `env:"POSTGRES_SLOW_QUERY" envDefault:"500ms"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	// Review core
	ReviewLockTimeout   time.Duration `env:"REVIEW_LOCK_TIMEOUT" envDefault:"5s"`
	ReviewRatePerMinute int           `env:"REVIEW_RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	// Redis, optional. When set the review limiter is shared across replicas.
	RedisURL string `env:"REDIS_URL"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaAsync   bool     `env:"KAFKA_ASYNC" envDefault:"true"`

	// Object storage
	StorageDriver       string `env:"STORAGE_DRIVER" envDefault:"memory"`
	MinioEndpoint       string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey      string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinioSecretKey      string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinioBucket         string `env:"MINIO_BUCKET" envDefault:"vendor-portal"`
	MinioUseSSL         bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinioPublicURL      string `env:"MINIO_PUBLIC_URL"`
	UploadMaxBytes      int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	UploadDefaultFolder string `env:"UPLOAD_DEFAULT_FOLDER" envDefault:"vendor-images"`

	// Admin and debug endpoints
	AdminAllowedCIDRs []string `env:"ADMIN_ALLOWED_CIDRS" envSeparator:","`
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotEnv(cfg); err != nil {
		return nil, fmt.Errorf("load vendor portal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.ReviewRatePerMinute < 1 {
		return fmt.Errorf("REVIEW_RATE_LIMIT_PER_MINUTE must be at least 1, got %d", c.ReviewRatePerMinute)
	}
	if c.UploadMaxBytes < 1 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	switch c.StorageDriver {
	case "memory", "minio":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want memory or minio)", c.StorageDriver)
	}

	if c.Environment != "development" {
		if c.JWTSecret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// Postgres returns the pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	if c.PostgresMaxConns > 0 {
		pg.MaxConns = c.PostgresMaxConns
	}
	return pg
}
