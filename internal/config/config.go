package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/vstore/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vstore.json"

	// DefaultPort is the default dev server port.
	DefaultPort = 3000

	// DefaultHost is the default dev server host.
	DefaultHost = "localhost"

	// DefaultStoreName labels the demo store in logs and metrics.
	DefaultStoreName = "counter"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vstore"
)

// Config represents vstore.json.
type Config struct {
	// Name labels the store in logs, spans and metrics.
	Name string `json:"name,omitempty" env:"VSTORE_STORE_NAME"`

	// Seed is where the initial state is loaded from: a .json or .yaml
	// file, or s3://bucket/key. Empty uses the built-in initial state.
	Seed string `json:"seed,omitempty" env:"VSTORE_SEED"`

	// Server contains dev server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains dev server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" env:"VSTORE_HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" env:"VSTORE_PORT"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"VSTORE_LOG_LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"VSTORE_LOG_FORMAT"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics on the dev server.
	Enabled *bool `json:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" env:"VSTORE_METRICS_NAMESPACE"`
}

// New returns a Config with defaults.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads vstore.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := New()
		cfg.configPath = path
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Unlike Load, the file must exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("C002").
			WithDetail(path).
			Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields from VSTORE_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{})
}

func (c *Config) applyEnv(opts env.Options) error {
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("C001").
			WithDetail("parse env: " + err.Error())
	}
	c.applyDefaults()
	return nil
}

// Exists reports whether dir contains vstore.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the config file path, if loaded from a file.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultStoreName
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Enabled == nil {
		enabled := true
		c.Metrics.Enabled = &enabled
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// MetricsEnabled reports whether /metrics is served.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("C001").
			WithDetail("Port must be between 0 and 65535")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("C001").
			WithDetailf("Unknown log level %q", c.Log.Level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("C001").
			WithDetailf("Unknown log format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	return nil
}

// Address returns the dev server listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the dev server URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}
