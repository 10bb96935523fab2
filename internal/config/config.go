// ABOUTME: Configuration loading and parsing for stockwatch
// ABOUTME: Supports YAML or TOML files with environment variable expansion and built-in defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the complete stockwatch configuration
type Config struct {
	Files   FilesConfig   `yaml:"files" toml:"files"`
	History HistoryConfig `yaml:"history" toml:"history"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// FilesConfig holds the locations of the stock file and the audit log
type FilesConfig struct {
	StockPath string `yaml:"stock_path" toml:"stock_path"`
	LogPath   string `yaml:"log_path" toml:"log_path"`
}

// HistoryConfig controls the SQLite mirror of the audit log
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// MetricsConfig holds the Prometheus textfile location (empty disables it)
type MetricsConfig struct {
	Textfile string `yaml:"textfile" toml:"textfile"`
}

// LoggingConfig holds diagnostic logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			StockPath: "stock.csv",
			LogPath:   "stock_log.csv",
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns the path to the config file.
// Priority: STOCKWATCH_CONFIG env var > XDG_CONFIG_HOME/stockwatch/config.yaml > ~/.config/stockwatch/config.yaml
func DefaultPath() string {
	if envPath := os.Getenv("STOCKWATCH_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "stockwatch.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "stockwatch", "config.yaml")
}

// DefaultHistoryPath returns the default history database location.
// Priority: XDG_DATA_HOME/stockwatch > ~/.local/share/stockwatch
func DefaultHistoryPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "history.db" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "stockwatch", "history.db")
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Keys missing from the file keep their defaults. Environment variables in the
// format ${VAR_NAME} are expanded. Files ending in .toml are parsed as TOML,
// everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// WriteDefault writes the default configuration as YAML to path.
// Parent directories are created if needed; an existing file is an error.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Files.StockPath == "" {
		return fmt.Errorf("files.stock_path is required")
	}
	if c.Files.LogPath == "" {
		return fmt.Errorf("files.log_path is required")
	}
	if filepath.Clean(c.Files.StockPath) == filepath.Clean(c.Files.LogPath) {
		return fmt.Errorf("files.stock_path and files.log_path must differ")
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %q)", c.Logging.Format)
	}

	return nil
}
