// Package config provides YAML configuration parsing for peercheck.
//
// A config file is optional: every field has a default, so an empty file
// (or no file at all) reproduces the public dashboard settings.
//
// Example configuration:
//
//	title: Gensyn Peer ID Tracker
//	port: 8000
//	dashboard_url: ${DASHBOARD_URL:-https://dashboard.gensyn.ai}
//	timeout: 4s
//	max_concurrency: 8
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [Parse] and [Default].
const (
	DefaultPort           = 8000
	DefaultDashboardURL   = "https://dashboard.gensyn.ai"
	DefaultTimeout        = 4 * time.Second
	DefaultMaxConcurrency = 8
)

// bounds for user-supplied values
const (
	minTimeout        = 100 * time.Millisecond
	maxTimeout        = time.Minute
	maxMaxConcurrency = 64
)

// Config is the root configuration structure for peercheck.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the page heading. Empty uses the built-in title.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8000.
	Port int `yaml:"port"`

	// DashboardURL is the dashboard host queried for each peer.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	DashboardURL string `yaml:"dashboard_url"`

	// Timeout is the per-lookup timeout. Defaults to 4s.
	Timeout Duration `yaml:"timeout"`

	// MaxConcurrency is the number of lookups in flight per submission.
	// Defaults to 8.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Unknown keys are rejected. Defaults are applied for every field left
// unset, then environment variables in dashboard_url are expanded and the
// result is validated.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.DashboardURL == "" {
		c.DashboardURL = DefaultDashboardURL
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(DefaultTimeout)
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	expanded, err := expandEnvVars(c.DashboardURL)
	if err != nil {
		return fmt.Errorf("dashboard_url: %w", err)
	}
	c.DashboardURL = expanded

	parsedURL, err := url.Parse(c.DashboardURL)
	if err != nil {
		return fmt.Errorf("invalid dashboard_url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("dashboard_url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("dashboard_url must have a host")
	}

	if t := c.Timeout.Duration(); t < minTimeout || t > maxTimeout {
		return fmt.Errorf("timeout must be between %s and %s, got %s", minTimeout, maxTimeout, t)
	}

	if c.MaxConcurrency < 1 || c.MaxConcurrency > maxMaxConcurrency {
		return fmt.Errorf("max_concurrency must be between 1 and %d, got %d", maxMaxConcurrency, c.MaxConcurrency)
	}

	return nil
}
