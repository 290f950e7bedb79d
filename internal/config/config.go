// Package config loads the dashboard settings from a YAML file, a .env file
// and the environment, and owns the process logger.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvAPIURLTemplate = "MOVIE_DASHBOARD_API_URL_TEMPLATE"
	EnvDBPath         = "MOVIE_DASHBOARD_DB"
	EnvLogLevel       = "MOVIE_DASHBOARD_LOG_LEVEL"
	EnvHTTPTimeout    = "MOVIE_DASHBOARD_HTTP_TIMEOUT"
)

const (
	dirName           = ".movie-dashboard"
	defaultDBFile     = "dashboard.db"
	defaultConfigFile = "config.yaml"
	DefaultTimeout    = 15 * time.Second
)

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the resolved dashboard configuration. An empty APIURLTemplate is
// valid here; it is reported when the first page is fetched.
type Config struct {
	APIURLTemplate string        `yaml:"api_url_template"`
	DBPath         string        `yaml:"db_path"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	Log            LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:      defaultPath(defaultDBFile),
		HTTPTimeout: DefaultTimeout,
		Log:         LogConfig{Level: "warn"},
	}
}

// DefaultConfigPath is ~/.movie-dashboard/config.yaml.
func DefaultConfigPath() string {
	return defaultPath(defaultConfigFile)
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, dirName, name)
}

// Load layers defaults, the YAML file at path, .env and the environment.
// An empty path means the default location, which may be absent; an explicit
// path must exist. Flags are applied by the caller on top of the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURLTemplate); v != "" {
		c.APIURLTemplate = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		c.HTTPTimeout = d
	}
	return nil
}
