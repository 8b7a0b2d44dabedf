package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config covers process level configuration read from environment
// variables.
type Config struct {
	App struct {
		Env Environment `env:"ROSTER_ENV" envDefault:"development"`
	}

	HTTP struct {
		Host string `env:"ROSTER_HTTP_HOST" envDefault:"0.0.0.0"`
		Port string `env:"ROSTER_HTTP_PORT" envDefault:"8080"`
	}

	Database struct {
		// Postgres DSN; empty keeps run history in memory only.
		URL string `env:"ROSTER_DATABASE_URL"`
	}

	Schedule struct {
		// Upper bound on a single run's date range. One run is a
		// sequential pass over every working day, so the caller keeps
		// latency bounded by refusing oversized ranges up front.
		MaxRangeDays int `env:"ROSTER_MAX_RANGE_DAYS" envDefault:"366"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Schedule.MaxRangeDays < 1 {
		return nil, fmt.Errorf("ROSTER_MAX_RANGE_DAYS must be positive, got %d", cfg.Schedule.MaxRangeDays)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}
