// Package config loads client configuration from defaults, an optional
// YAML file, and environment variables (in increasing precedence).
// Command-line flags are applied on top by the CLI layer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAPIURL  = "http://localhost:5000/api"
	DefaultTimeout = 30 * time.Second
)

const configFileName = "config.yaml"

// Config holds all settings for the prep client.
type Config struct {
	APIURL    string        `env:"PREP_API_URL"`
	Timeout   time.Duration `env:"PREP_TIMEOUT"`
	LogLevel  string        `env:"PREP_LOG_LEVEL"`
	LogFormat string        `env:"PREP_LOG_FORMAT"`
	DataDir   string        `env:"PREP_DATA_DIR"`
}

// Default returns the baseline configuration. The data directory is
// ~/.prep (falling back to the working directory if no home exists).
func Default() Config {
	dataDir := ".prep"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".prep")
	}
	return Config{
		APIURL:    DefaultAPIURL,
		Timeout:   DefaultTimeout,
		LogLevel:  "info",
		LogFormat: "text",
		DataDir:   dataDir,
	}
}

// Load builds the effective configuration: defaults, then the config
// file in the data directory (if present), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if err := cfg.loadFile(filepath.Join(cfg.DataDir, configFileName)); err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// loadFile merges settings from a YAML file. A missing file is not an
// error; absent keys keep their current values. The timeout is written
// in Go duration syntax ("30s").
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw struct {
		APIURL    string `yaml:"api_url"`
		Timeout   string `yaml:"timeout"`
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
		DataDir   string `yaml:"data_dir"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if raw.APIURL != "" {
		c.APIURL = raw.APIURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parse config %s: timeout: %w", path, err)
		}
		c.Timeout = d
	}
	if raw.LogLevel != "" {
		c.LogLevel = raw.LogLevel
	}
	if raw.LogFormat != "" {
		c.LogFormat = raw.LogFormat
	}
	if raw.DataDir != "" {
		c.DataDir = raw.DataDir
	}
	return nil
}

// DBPath returns the path of the local state database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "prep.db")
}
