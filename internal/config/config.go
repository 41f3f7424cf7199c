// Package config loads otrbridge settings from YAML and holds the runtime
// debug flag shared by every component.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PassphraseEnv overrides the key passphrase; it is never read from YAML.
const PassphraseEnv = "OTRBRIDGE_PASSPHRASE"

// Config holds all configurable parameters.
type Config struct {
	Home              string   `yaml:"home"`
	Debug             bool     `yaml:"debug"`
	LogFormat         string   `yaml:"log_format"`
	RequireEncryption bool     `yaml:"require_encryption"`
	ConsoleMarkers    []string `yaml:"console_markers"`
	RelayURL          string   `yaml:"relay_url"`
	RelayListen       string   `yaml:"relay_listen"`

	Passphrase string `yaml:"-"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	home := ".otrbridge"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".otrbridge")
	}
	return &Config{
		Home:           home,
		LogFormat:      "text",
		ConsoleMarkers: []string{"xmlconsole"},
		RelayURL:       "ws://127.0.0.1:8080",
		RelayListen:    "127.0.0.1:8080",
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(DefaultConfig().Home, "config.yaml")
}

// Load reads configuration from a YAML file.
// Empty path falls back to DefaultPath. Missing file returns defaults.
// Invalid YAML or unknown fields return an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// YAML overwrites only specified fields.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if p := os.Getenv(PassphraseEnv); p != "" {
		cfg.Passphrase = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.Home == "" {
		return errors.New("home must not be empty")
	}
	for _, m := range c.ConsoleMarkers {
		if strings.TrimSpace(m) == "" {
			return errors.New("console_markers must not contain empty entries")
		}
	}
	return nil
}
