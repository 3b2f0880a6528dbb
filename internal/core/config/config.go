// Package config handles configuration loading and validation for gitrepo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/gitrepo/pkg/gitstatus"
)

// DefaultCommandTimeout bounds a single git invocation when the config leaves it unset.
const DefaultCommandTimeout = 5 * time.Minute

// Config holds the application configuration.
type Config struct {
	GitPath string `yaml:"git_path"`
	// CommandTimeout bounds each git process. A negative value disables the limit.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	Status         StatusConfig  `yaml:"status"`
	// Env is applied on top of the inherited environment for every git command.
	Env map[string]string `yaml:"env"`
}

// StatusConfig holds status parsing options.
type StatusConfig struct {
	Matching string `yaml:"matching"` // loose or anchored
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GitPath:        "git",
		CommandTimeout: DefaultCommandTimeout,
		Status: StatusConfig{
			Matching: gitstatus.MatchLoose.String(),
		},
		Env: map[string]string{},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gitrepo/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gitrepo", "config.yaml")
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = defaults.CommandTimeout
	}
	if c.Status.Matching == "" {
		c.Status.Matching = defaults.Status.Matching
	}
	if c.Env == nil {
		c.Env = map[string]string{}
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if _, err := gitstatus.ParseMatching(c.Status.Matching); err != nil {
		return fmt.Errorf("status.matching: %w", err)
	}

	for key := range c.Env {
		if key == "" || strings.ContainsAny(key, "=\x00") {
			return fmt.Errorf("env key %q is not a valid variable name", key)
		}
	}

	return nil
}

// Matching returns the configured status parsing mode. Call after Validate.
func (c *Config) Matching() gitstatus.Matching {
	m, _ := gitstatus.ParseMatching(c.Status.Matching)
	return m
}
