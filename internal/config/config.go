package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"production"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	Database        DatabaseConfig
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"golf"`
	Password string `env:"DB_PASSWORD" envDefault:"golf"`
	DBName   string `env:"DB_NAME" envDefault:"competitions"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Migrate  bool   `env:"DB_MIGRATE" envDefault:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}
