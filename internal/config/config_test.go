package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caarlos0/env/v11"

	vserr "github.com/vango-dev/vstore/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Name != DefaultStoreName {
		t.Errorf("Name = %q, want %q", cfg.Name, DefaultStoreName)
	}
	if !cfg.MetricsEnabled() {
		t.Error("metrics should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Missing config falls back to defaults
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() without file error: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}

	configJSON := `{
  "name": "todos",
  "seed": "s3://bucket/seed.json",
  "server": {"host": "0.0.0.0", "port": 8080},
  "log": {"level": "debug", "format": "json"},
  "metrics": {"enabled": false}
}
`
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Name != "todos" {
		t.Errorf("Name = %q, want todos", cfg.Name)
	}
	if cfg.Seed != "s3://bucket/seed.json" {
		t.Errorf("Seed = %q", cfg.Seed)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.MetricsEnabled() {
		t.Error("metrics should be disabled")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := LoadFile(filepath.Join(tmpDir, "missing.json"))
	var se *vserr.StoreError
	if !errors.As(err, &se) || se.Code != "C002" {
		t.Errorf("missing file error = %v, want C002", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error should wrap os.ErrNotExist: %v", err)
	}

	bad := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad)
	if !errors.As(err, &se) || se.Code != "C001" {
		t.Errorf("invalid JSON error = %v, want C001", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	err := cfg.applyEnv(env.Options{Environment: map[string]string{
		"VSTORE_HOST":              "127.0.0.1",
		"VSTORE_PORT":              "9090",
		"VSTORE_SEED":              "seed.yaml",
		"VSTORE_LOG_LEVEL":         "warn",
		"VSTORE_LOG_FORMAT":        "json",
		"VSTORE_STORE_NAME":        "cart",
		"VSTORE_METRICS_NAMESPACE": "shop",
	}})
	if err != nil {
		t.Fatalf("applyEnv() error: %v", err)
	}

	if cfg.Address() != "127.0.0.1:9090" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Seed != "seed.yaml" || cfg.Name != "cart" {
		t.Errorf("Seed/Name = %q/%q", cfg.Seed, cfg.Name)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != "shop" {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
}

func TestApplyEnvKeepsFileValues(t *testing.T) {
	cfg := New()
	cfg.Server.Port = 4000
	if err := cfg.applyEnv(env.Options{Environment: map[string]string{}}); err != nil {
		t.Fatalf("applyEnv() error: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := New()
	err := cfg.applyEnv(env.Options{Environment: map[string]string{"VSTORE_PORT": "many"}})
	if err == nil || !strings.Contains(err.Error(), "C001") {
		t.Errorf("error = %v, want C001", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"upper-case level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
