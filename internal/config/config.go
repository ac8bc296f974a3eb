package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	JwtSecret string        `env:"JWT_SECRET" envDefault:"defaultsecret"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"rfp-portal"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// StoreDriver selects the record store backend: "postgres" or "memory".
	StoreDriver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	RecordScanLimit int    `env:"RECORD_SCAN_LIMIT" envDefault:"1000"`
	PostgresConfig

	DraftRetention     time.Duration `env:"DRAFT_RETENTION" envDefault:"720h"`
	DraftSweepInterval time.Duration `env:"DRAFT_SWEEP_INTERVAL" envDefault:"0"`
	MaintenanceToken   string        `env:"MAINTENANCE_TOKEN"`

	MinioConfig

	WebhookURL     string        `env:"WEBHOOK_URL"`
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`

	RedisURL string `env:"REDIS_URL"`

	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

type PostgresConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	Name     string `env:"DB_NAME" envDefault:"rfp_portal"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Name,
	)
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"rfp-documents"`
	PublicURL string `env:"MINIO_PUBLIC_URL"`
}

// LoadConfig reads .env if present, then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("config.Parse: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.IsProduction() && cfg.JwtSecret == "defaultsecret" {
		return nil, fmt.Errorf("config.Parse: JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func (c *Config) NewLogger() *slog.Logger {
	level := new(slog.LevelVar)
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
