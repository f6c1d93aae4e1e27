package driver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is the config file picked up from the working directory
// when no explicit path is given.
const DefaultConfigFile = "tinyjs.toml"

// Config holds the driver configuration.
type Config struct {
	Input     string   `toml:"input"`
	OutDir    string   `toml:"out_dir"`
	Output    string   `toml:"output"`
	LogLevel  string   `toml:"log_level"`
	CacheSize int      `toml:"cache_size"`
	Debounce  Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file is present:
// src/index.js is compiled to dist/index.js.
func DefaultConfig() Config {
	return Config{
		Input:     filepath.Join("src", "index.js"),
		OutDir:    "dist",
		Output:    "index.js",
		LogLevel:  "info",
		CacheSize: 64,
		Debounce:  Duration{200 * time.Millisecond},
	}
}

// LoadConfig loads configuration from a TOML file.
//
// An empty path loads DefaultConfigFile if it exists and falls back to
// DefaultConfig otherwise. An explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return cfg, nil
		}
		path = DefaultConfigFile
	}

	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// applyDefaults fills fields the file left empty.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Input == "" {
		c.Input = def.Input
	}
	if c.OutDir == "" {
		c.OutDir = def.OutDir
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Debounce.Duration <= 0 {
		c.Debounce = def.Debounce
	}
}

// Validate checks the configuration for values the driver cannot use.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if filepath.Base(c.Output) != c.Output {
		return fmt.Errorf("output must be a file name, got %q", c.Output)
	}
	return nil
}

// OutputPath returns the path the generated program is written to.
func (c Config) OutputPath() string {
	return filepath.Join(c.OutDir, c.Output)
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
