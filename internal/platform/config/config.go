package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	ResolverLocal  = "local"
	ResolverPinata = "pinata"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"aimarket"`
	HTTPPort    string `env:"HTTP_PORT"    envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"   envDefault:"json"`

	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"memory"`
	PostgresDSN   string   `env:"POSTGRES_DSN"`
	SQLitePath    string   `env:"SQLITE_PATH"    envDefault:"aimarket.db"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS"  envDefault:"localhost:9092" envSeparator:","`

	CollectionName    string `env:"COLLECTION_NAME"     envDefault:"AIModelNFT"`
	CollectionSymbol  string `env:"COLLECTION_SYMBOL"   envDefault:"AIM"`
	AllowSelfPurchase bool   `env:"ALLOW_SELF_PURCHASE" envDefault:"true"`

	ContentResolver   string `env:"CONTENT_RESOLVER"    envDefault:"local"`
	ContentDir        string `env:"CONTENT_DIR"`
	PinataJWT         string `env:"PINATA_JWT"`
	PinataBaseURL     string `env:"PINATA_BASE_URL"     envDefault:"https://api.pinata.cloud/pinning"`
	ContentGatewayURL string `env:"CONTENT_GATEWAY_URL" envDefault:"https://ipfs.io/ipfs/"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE"    envDefault:"100"`
}

// Load reads an optional .env file, then the process environment. Variables
// already set in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.ContentResolver = strings.ToLower(strings.TrimSpace(cfg.ContentResolver))
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required for postgres storage")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.ContentResolver {
	case ResolverLocal:
	case ResolverPinata:
		if strings.TrimSpace(c.PinataJWT) == "" {
			return errors.New("PINATA_JWT is required for the pinata content resolver")
		}
	default:
		return fmt.Errorf("unsupported CONTENT_RESOLVER %q", c.ContentResolver)
	}

	if c.OutboxPollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.OutboxBatchSize <= 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto slog levels; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	if len(out) == 0 {
		return []string{"localhost:9092"}
	}
	return out
}
