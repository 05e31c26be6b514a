// Package config loads the process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvStationDriver    = "OCEANQC_STATION_DRIVER"
	EnvStationDSN       = "OCEANQC_STATION_DSN"
	EnvMetricsNamespace = "OCEANQC_METRICS_NAMESPACE"
	EnvCodecs           = "OCEANQC_CODECS"
)

// Station driver names accepted by EnvStationDriver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the resolved process configuration.
type Config struct {
	StationDriver    string
	StationDSN       string
	MetricsNamespace string
	// Codecs restricts which built-in codecs are registered. Empty means all.
	Codecs []string
}

// CodecEnabled reports whether the named built-in codec should be registered.
func (c *Config) CodecEnabled(name string) bool {
	if len(c.Codecs) == 0 {
		return true
	}
	for _, n := range c.Codecs {
		if n == name {
			return true
		}
	}
	return false
}

// ConfigurationError reports a missing or invalid required setting. It is
// fatal at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Load resolves the configuration. When envFile is non-empty it must exist
// and is loaded first; otherwise a .env in the working directory is loaded
// when present. Real environment variables win over file values.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	cfg := &Config{
		StationDriver:    getenv(EnvStationDriver, DriverMemory),
		StationDSN:       os.Getenv(EnvStationDSN),
		MetricsNamespace: getenv(EnvMetricsNamespace, "oceanqc"),
	}
	if raw := os.Getenv(EnvCodecs); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Codecs = append(cfg.Codecs, name)
			}
		}
	}
	switch cfg.StationDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if cfg.StationDSN == "" {
			return nil, &ConfigurationError{
				Key:    EnvStationDSN,
				Reason: fmt.Sprintf("required for station driver %q", cfg.StationDriver),
			}
		}
	default:
		return nil, &ConfigurationError{
			Key:    EnvStationDriver,
			Reason: fmt.Sprintf("unknown driver %q", cfg.StationDriver),
		}
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
