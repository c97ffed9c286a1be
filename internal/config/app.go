package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = "njtax.yaml"

// AppConfig is the process configuration, loaded once at startup
type AppConfig struct {
	Data       DataConfig       `yaml:"data"`
	Server     ServerConfig     `yaml:"server"`
	Comparison ComparisonConfig `yaml:"comparison"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Debug      bool             `yaml:"debug"`
}

// DataConfig locates the static data files. Relative paths are resolved against Dir.
type DataConfig struct {
	Dir            string `yaml:"dir"`
	StateFile      string `yaml:"state_file"`
	CountyRates    string `yaml:"county_rates"`
	MunicipalRates string `yaml:"municipal_rates"`
	Exemptions     string `yaml:"exemptions"`
}

// ServerConfig configures the HTTP boundary
type ServerConfig struct {
	Address         string        `yaml:"address"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ComparisonConfig configures the comparison deriver
type ComparisonConfig struct {
	ThresholdPct decimal.Decimal `yaml:"threshold_pct"`
}

// PostgresConfig configures the optional overview publish target
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// DefaultAppConfig returns the configuration used when no file is present
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Data: DataConfig{
			Dir:            "data",
			StateFile:      "nj.json",
			CountyRates:    "county-rates.json",
			MunicipalRates: "municipal-rates.json",
			Exemptions:     "exemptions.json",
		},
		Server: ServerConfig{
			Address:         ":8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Comparison: ComparisonConfig{
			ThresholdPct: decimal.NewFromInt(5),
		},
		Postgres: PostgresConfig{
			Table: "town_overviews",
		},
	}
}

// LoadAppConfig reads the YAML config at path over the defaults and then applies
// environment overrides. An empty path or a missing file yields the defaults.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	c.Server.Address = getEnv("NJTAX_ADDR", c.Server.Address)
	c.Data.Dir = getEnv("NJTAX_DATA_DIR", c.Data.Dir)
	c.Postgres.DSN = getEnv("NJTAX_POSTGRES_DSN", c.Postgres.DSN)
}

// Validate checks the loaded configuration
func (c *AppConfig) Validate() error {
	if c.Data.StateFile == "" {
		return fmt.Errorf("data.state_file is required")
	}
	if c.Data.CountyRates == "" {
		return fmt.Errorf("data.county_rates is required")
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release, or test, got %q", c.Server.Mode)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout cannot be negative")
	}
	if c.Comparison.ThresholdPct.IsNegative() {
		return fmt.Errorf("comparison.threshold_pct cannot be negative")
	}
	return nil
}

// Resolved returns a copy of the data paths joined onto Dir.
func (d DataConfig) Resolved() DataConfig {
	return DataConfig{
		Dir:            d.Dir,
		StateFile:      d.resolve(d.StateFile),
		CountyRates:    d.resolve(d.CountyRates),
		MunicipalRates: d.resolve(d.MunicipalRates),
		Exemptions:     d.resolve(d.Exemptions),
	}
}

func (d DataConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
