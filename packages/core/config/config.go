package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the apidesk configuration
type Config struct {
	Timeout         int    `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds, 0 = no deadline
	FollowRedirects *bool  `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects    int    `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"` // 0 = default; disable with followRedirects: false
	Output          string `json:"output,omitempty" yaml:"output,omitempty"` // console or json
	NoColor         *bool  `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Verbose         *bool  `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Addr            string `json:"addr,omitempty" yaml:"addr,omitempty"` // bridge listen address
	LogLevel        string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	EnvFile         string `json:"envFile,omitempty" yaml:"envFile,omitempty"` // .env file for {{name}} variables
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetMaxRedirects returns the redirect cap, DefaultMaxRedirects when unset
func (c *Config) GetMaxRedirects() int {
	if c.MaxRedirects <= 0 {
		return DefaultMaxRedirects
	}
	return c.MaxRedirects
}

// TimeoutDuration converts Timeout to a duration
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %d", c.Timeout)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("maxRedirects must not be negative: %d", c.MaxRedirects)
	}
	switch c.Output {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported output format: %s (use console or json)", c.Output)
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	"apidesk.yaml",
	"apidesk.yml",
	".apidesk.json",
	"apidesk.config.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.Addr != "" {
		result.Addr = other.Addr
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}

	return &result
}

// SaveConfig saves the configuration as YAML
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
