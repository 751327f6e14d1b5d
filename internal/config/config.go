package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingDatabaseURL is returned by Validate when no connection string is configured.
var ErrMissingDatabaseURL = errors.New("database url is not set (DATABASE_URL)")

// Environment variables that override the file.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "BACKOFFICE_LOG_LEVEL"
	EnvServerAddr  = "BACKOFFICE_ADDR"
)

// Config represents the top-level backoffice.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL      string `yaml:"url,omitempty"`
	MaxConns int32  `yaml:"max_conns"`
}

// ImportConfig controls the payables sheet import.
type ImportConfig struct {
	InputPath                string `yaml:"input_path"`
	EventMatch               string `yaml:"event_match"` // first, unique or exact
	EnforceSubcategoryParent bool   `yaml:"enforce_subcategory_parent"`
	FallbackActorID          int64  `yaml:"fallback_actor_id"`
	ErrorDisplayLimit        int    `yaml:"error_display_limit"`
	// RunLogPath receives one CSV row per import run. Empty disables it.
	RunLogPath               string `yaml:"run_log_path"`
}

// ServerConfig controls the permissions API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a backoffice.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new install.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConns: 4,
		},
		Import: ImportConfig{
			InputPath:         "data/contas_a_pagar.xlsx",
			EventMatch:        "first",
			FallbackActorID:   1,
			ErrorDisplayLimit: 50,
			RunLogPath:        "logs/import-runs.csv",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Resolve loads path if it exists (defaults otherwise), then applies a .env
// file from dotenvPath when present and finally the process environment.
func Resolve(path, dotenvPath string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.Database.URL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvServerAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the settings every database-backed command needs.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	switch c.Import.EventMatch {
	case "", "first", "unique", "exact":
	default:
		return fmt.Errorf("invalid import.event_match %q (want first, unique or exact)", c.Import.EventMatch)
	}
	if c.Import.ErrorDisplayLimit < 0 {
		return fmt.Errorf("invalid import.error_display_limit %d", c.Import.ErrorDisplayLimit)
	}
	return nil
}
