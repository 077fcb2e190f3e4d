package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ligustah/windl/internal/progress"
	"gopkg.in/yaml.v3"
)

// Display modes.
const (
	DisplayLine = "line"
	DisplayBar  = "bar"
)

// FileName is the name of the per-user configuration file in the home
// directory.
const FileName = ".windl.yaml"

// maxBufferSize bounds buffer_size.
const maxBufferSize = 64 * 1024 * 1024

// Config defines configuration for the windl CLI.
type Config struct {
	UserAgent      string        `yaml:"user_agent"`
	BufferSize     int64         `yaml:"buffer_size"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Display        string        `yaml:"display"`
	Bucket         string        `yaml:"bucket"`
	AssumeYes      bool          `yaml:"assume_yes"`
	LogLevel       string        `yaml:"log_level"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		UserAgent:      "WinDL/1.0",
		BufferSize:     16 * 1024, // 16KiB
		UpdateInterval: progress.DefaultInterval,
		ConnectTimeout: 30 * time.Second,
		Display:        DisplayLine,
		LogLevel:       "warn",
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes and durations.
type yamlConfig struct {
	UserAgent      string `yaml:"user_agent"`
	BufferSize     string `yaml:"buffer_size"`
	UpdateInterval string `yaml:"update_interval"`
	ConnectTimeout string `yaml:"connect_timeout"`
	Display        string `yaml:"display"`
	Bucket         string `yaml:"bucket"`
	AssumeYes      bool   `yaml:"assume_yes"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultPath returns the path of the per-user configuration file, or ""
// when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}
	if yc.BufferSize != "" {
		size, err := progress.ParseBytes(yc.BufferSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse buffer_size: %w", err)
		}
		cfg.BufferSize = size
	}
	if yc.UpdateInterval != "" {
		d, err := time.ParseDuration(yc.UpdateInterval)
		if err != nil {
			return Config{}, fmt.Errorf("parse update_interval: %w", err)
		}
		cfg.UpdateInterval = d
	}
	if yc.ConnectTimeout != "" {
		d, err := time.ParseDuration(yc.ConnectTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}
	if yc.Display != "" {
		cfg.Display = yc.Display
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	cfg.AssumeYes = yc.AssumeYes
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the WINDL_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("WINDL_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("WINDL_BUFFER_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse WINDL_BUFFER_SIZE: %w", err)
		}
		c.BufferSize = size
	}
	if v := os.Getenv("WINDL_UPDATE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse WINDL_UPDATE_INTERVAL: %w", err)
		}
		c.UpdateInterval = d
	}
	if v := os.Getenv("WINDL_CONNECT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse WINDL_CONNECT_TIMEOUT: %w", err)
		}
		c.ConnectTimeout = d
	}
	if v := os.Getenv("WINDL_DISPLAY"); v != "" {
		c.Display = v
	}
	if v := os.Getenv("WINDL_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("WINDL_ASSUME_YES"); v != "" {
		c.AssumeYes = v == "true" || v == "1"
	}
	if v := os.Getenv("WINDL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return errors.New("config: user_agent is required")
	}
	if c.BufferSize <= 0 {
		return errors.New("config: buffer_size must be positive")
	}
	if c.BufferSize > maxBufferSize {
		return fmt.Errorf("config: buffer_size must not exceed %s", progress.FormatSize(maxBufferSize))
	}
	if c.UpdateInterval <= 0 {
		return errors.New("config: update_interval must be positive")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("config: connect_timeout must be positive")
	}
	if c.Display != DisplayLine && c.Display != DisplayBar {
		return fmt.Errorf("config: display must be %q or %q, got %q", DisplayLine, DisplayBar, c.Display)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	if override.BufferSize != 0 {
		c.BufferSize = override.BufferSize
	}
	if override.UpdateInterval != 0 {
		c.UpdateInterval = override.UpdateInterval
	}
	if override.ConnectTimeout != 0 {
		c.ConnectTimeout = override.ConnectTimeout
	}
	if override.Display != "" {
		c.Display = override.Display
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.AssumeYes {
		c.AssumeYes = override.AssumeYes
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	return c
}
