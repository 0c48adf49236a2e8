// Package config loads Nesshub configuration from defaults, an optional
// YAML file, and NESSHUB_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for Nesshub.
type Config struct {
	// Address the HTTP service listens on
	ServerAddr string `mapstructure:"server_addr"`

	// Upload size cap in megabytes for the HTTP service
	MaxUploadMB int `mapstructure:"max_upload_mb"`

	// Number of generated report bundles kept in memory
	CacheCapacity int `mapstructure:"cache_capacity"`

	// Per-request timeout in seconds for the HTTP service
	RequestTimeoutSec int `mapstructure:"request_timeout_sec"`

	// Default report name when none is supplied
	ReportName string `mapstructure:"report_name"`

	// Directory where the render command writes its output
	OutputDir string `mapstructure:"output_dir"`

	// Worker count for rendering multiple exports at once
	Workers int `mapstructure:"workers"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr:        ":8080",
		MaxUploadMB:       50,
		CacheCapacity:     10,
		RequestTimeoutSec: 60,
		ReportName:        "Nessus Assessment",
		OutputDir:         ".",
		Workers:           4,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (~/.nesshub.yaml or ./nesshub.yaml)
// 3. Environment variables (NESSHUB_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path.
// If path is empty, it searches for config in standard locations.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("server_addr", defaults.ServerAddr)
	v.SetDefault("max_upload_mb", defaults.MaxUploadMB)
	v.SetDefault("cache_capacity", defaults.CacheCapacity)
	v.SetDefault("request_timeout_sec", defaults.RequestTimeoutSec)
	v.SetDefault("report_name", defaults.ReportName)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)

	v.SetConfigName("nesshub")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 1. Current directory
		v.AddConfigPath(".")

		// 2. Home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		// 3. XDG config directory
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "nesshub"))
		}
	}

	v.SetEnvPrefix("NESSHUB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine, defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerAddr) == "" {
		return fmt.Errorf("server_addr cannot be empty")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be at least 1")
	}
	if c.CacheCapacity < 1 {
		return fmt.Errorf("cache_capacity must be at least 1")
	}
	if c.RequestTimeoutSec < 1 {
		return fmt.Errorf("request_timeout_sec must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	return nil
}

// GenerateSampleConfig generates a sample configuration file content.
func GenerateSampleConfig() string {
	return `# Nesshub Configuration
# Save this file as ~/.nesshub.yaml or ./nesshub.yaml

# Address the HTTP service listens on
server_addr: :8080

# Upload size cap in megabytes
max_upload_mb: 50

# How many generated report bundles stay cached in memory
cache_capacity: 10

# Per-request timeout in seconds
request_timeout_sec: 60

# Default report name when the upload form leaves it blank
report_name: Nessus Assessment

# Directory where 'nesshub render' writes reports
output_dir: .

# Worker count when rendering multiple exports
workers: 4

# Enable verbose output
verbose: false

# Enable debug mode
debug: false
`
}
