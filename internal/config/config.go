// Package config provides configuration loading and structs for the dishhub
// service and command line client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Client  ClientConfig  `yaml:"client"`
	Browse  BrowseConfig  `yaml:"browse"`
	Seed    SeedConfig    `yaml:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	SessionCookie string        `yaml:"session_cookie"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	// AuthRateLimit is the sustained rate of register and login requests per
	// second; AuthBurst is how many may arrive at once.
	AuthRateLimit float64       `yaml:"auth_rate_limit"`
	AuthBurst     int           `yaml:"auth_burst"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ClientConfig holds settings for talking to the service.
type ClientConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	SessionCookie string        `yaml:"session_cookie"`
	SessionFile   string        `yaml:"session_file"`
}

// BrowseConfig holds result paging and suggestion settings.
type BrowseConfig struct {
	PageSize        int    `yaml:"page_size"`
	SuggestionLimit int    `yaml:"suggestion_limit"`
	SuggestMode     string `yaml:"suggest_mode"`
}

// SeedConfig holds fixture directory settings.
type SeedConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (s *SeedConfig) RecursiveOrDefault() bool {
	if s.Recursive != nil {
		return *s.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	expandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and returns the defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// Default returns a config with every default applied and paths expanded.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	expandPaths(&cfg, ".")
	return &cfg
}

func expandPaths(cfg *Config, configDir string) {
	if cfg.Storage.DatabasePath != ":memory:" {
		cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	}
	cfg.Client.SessionFile = expandPath(cfg.Client.SessionFile, configDir)
	for i := range cfg.Seed.Directories {
		cfg.Seed.Directories[i] = expandPath(cfg.Seed.Directories[i], configDir)
	}
}

// Save writes the config to path. Used for persisting seed directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// a leading "~/" and other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}
