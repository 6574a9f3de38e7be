package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/xdf2508/e-family/pkg/config"
	"github.com/xdf2508/e-family/pkg/database"
)

// Ownership modes for order access checks.
const (
	OwnershipModeSubject = "subject"
	OwnershipModePhone   = "phone"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"
const defaultWechatPlaceholder = ""

// Config holds all configuration for the homestay service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"homestay"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"homestay_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"homestay"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (room list cache)
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RoomCacheTTL  time.Duration `env:"ROOM_CACHE_TTL" envDefault:"5m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Sessions
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	// WeChat Mini Program credentials
	WechatAppID     string        `env:"WECHAT_APP_ID" envDefault:""`
	WechatAppSecret string        `env:"WECHAT_APP_SECRET" envDefault:""`
	WechatBaseURL   string        `env:"WECHAT_BASE_URL" envDefault:"https://api.weixin.qq.com"`
	WechatTimeout   time.Duration `env:"WECHAT_TIMEOUT" envDefault:"5s"`

	// Order ownership check: "subject" compares the order's owner id with
	// the authenticated user, "phone" compares guest phone numbers the way
	// the legacy backend did.
	OrderOwnershipMode string `env:"ORDER_OWNERSHIP_MODE" envDefault:"subject"`

	// Login rate limiting, per client address. The WeChat exchange consumes
	// one upstream quota unit per attempt, so the login route is throttled.
	LoginRateRPS   int `env:"LOGIN_RATE_RPS" envDefault:"5"`
	LoginRateBurst int `env:"LOGIN_RATE_BURST" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	if cfg.OrderOwnershipMode != OwnershipModeSubject && cfg.OrderOwnershipMode != OwnershipModePhone {
		return nil, fmt.Errorf("invalid ORDER_OWNERSHIP_MODE: %q", cfg.OrderOwnershipMode)
	}

	if cfg.LoginRateRPS < 1 || cfg.LoginRateBurst < 1 {
		return nil, fmt.Errorf("LOGIN_RATE_RPS and LOGIN_RATE_BURST must be positive")
	}

	if cfg.JWTExpiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY must be positive, got %s", cfg.JWTExpiry)
	}

	// Outside development, placeholder secrets and missing provider
	// credentials are configuration errors.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
		if cfg.WechatAppID == defaultWechatPlaceholder || cfg.WechatAppSecret == defaultWechatPlaceholder {
			return nil, fmt.Errorf("WECHAT_APP_ID and WECHAT_APP_SECRET must be set in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}

// Postgres returns the pool configuration for the configured database.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	return pg
}

// Redis returns the cache connection configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
