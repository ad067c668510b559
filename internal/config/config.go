package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/PratikDhanave/edge-event-service/internal/models"
	"github.com/PratikDhanave/edge-event-service/internal/store"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8000"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/events.db"`
	DBURL    string `env:"DB_URL"`

	// RequireSessionID decides whether ingestion rejects events without a
	// session_id. The column is nullable either way.
	RequireSessionID bool `env:"REQUIRE_SESSION_ID" envDefault:"true"`

	LogConfig

	TraceStdout bool `env:"TRACE_STDOUT" envDefault:"false"`
}

// LogConfig is the part of the environment every command needs, including
// ones that never open the database.
type LogConfig struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadLogConfig reads only the logging variables.
func LoadLogConfig() (LogConfig, error) {
	var cfg LogConfig
	if err := env.Parse(&cfg); err != nil {
		return LogConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return LogConfig{}, err
	}
	return cfg, nil
}

func (c LogConfig) validate() error {
	switch c.LogFormat {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf(`LOG_FORMAT must be "text" or "json", got %q`, c.LogFormat)
	}
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations env parsing cannot express.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	switch c.DBDriver {
	case store.DriverSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return errors.New("DB_PATH required for sqlite")
		}
	case store.DriverPostgres:
		if strings.TrimSpace(c.DBURL) == "" {
			return errors.New("DB_URL required for postgres")
		}
	default:
		return fmt.Errorf(`DB_DRIVER must be "sqlite" or "postgres", got %q`, c.DBDriver)
	}

	return c.LogConfig.validate()
}

// Addr returns the listen address in host:port format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns what store.Open expects for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == store.DriverPostgres {
		return c.DBURL
	}
	return c.DBPath
}

// ValidationRules returns the ingestion rules this deployment enforces.
func (c Config) ValidationRules() models.ValidationRules {
	return models.ValidationRules{RequireSessionID: c.RequireSessionID}
}
