package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets the key for the test while restoring it afterwards.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, EnvStationDriver)
	clearEnv(t, EnvStationDSN)
	clearEnv(t, EnvMetricsNamespace)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StationDriver != DriverMemory {
		t.Fatalf("StationDriver = %q, want memory", cfg.StationDriver)
	}
	if cfg.MetricsNamespace != "oceanqc" {
		t.Fatalf("MetricsNamespace = %q", cfg.MetricsNamespace)
	}
}

func TestLoadRequiresDSNForSQLDrivers(t *testing.T) {
	clearEnv(t, EnvStationDSN)
	t.Setenv(EnvStationDriver, DriverPostgres)

	_, err := Load("")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) || cerr.Key != EnvStationDSN {
		t.Fatalf("Load error = %v, want ConfigurationError for DSN", err)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv(EnvStationDriver, "oracle")
	_, err := Load("")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) || cerr.Key != EnvStationDriver {
		t.Fatalf("Load error = %v, want ConfigurationError for driver", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t, EnvStationDriver)
	clearEnv(t, EnvStationDSN)

	path := filepath.Join(t.TempDir(), "test.env")
	content := EnvStationDriver + "=sqlite\n" + EnvStationDSN + "=stations.db\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StationDriver != DriverSQLite || cfg.StationDSN != "stations.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadCodecToggles(t *testing.T) {
	t.Setenv(EnvCodecs, "json, yaml ,")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Codecs) != 2 {
		t.Fatalf("Codecs = %v", cfg.Codecs)
	}
	if !cfg.CodecEnabled("json") || !cfg.CodecEnabled("yaml") || cfg.CodecEnabled("csv") {
		t.Fatalf("CodecEnabled wrong for %v", cfg.Codecs)
	}

	clearEnv(t, EnvCodecs)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.CodecEnabled("csv") {
		t.Fatal("empty toggle list must enable every codec")
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("explicit missing env file should fail")
	}
}
