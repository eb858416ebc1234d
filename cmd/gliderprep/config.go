package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	// DataHome holds the deployments tree. Set via GLIDER_DATA_HOME.
	DataHome string `mapstructure:"data_home"`

	// DataHomeTest replaces DataHome when --test is given.
	// Set via GLIDER_DATA_HOME_TEST.
	DataHomeTest string `mapstructure:"data_home_test"`

	// ConfigHome holds one config set directory per glider.
	// Set via GLIDER_CONFIG_HOME.
	ConfigHome string `mapstructure:"config_home"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResolveDataHome returns the data home for a normal or a test run.
func (c Config) ResolveDataHome(test bool) string {
	if test {
		return c.DataHomeTest
	}
	return c.DataHome
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("data_home", "")
	v.SetDefault("data_home_test", "")
	v.SetDefault("config_home", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// GLIDER_DATA_HOME, GLIDER_CONFIG_HOME, GLIDER_LOG_LEVEL, ...
	v.SetEnvPrefix("GLIDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler creates a handler on w with the configured level and format.
// Proc-log files use the same handler as the console.
func NewHandler(cfg *Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Log.Level),
	}
	if strings.ToLower(cfg.Log.Format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetupLogger creates the console logger.
func SetupLogger(cfg *Config) *slog.Logger {
	return slog.New(NewHandler(cfg, os.Stderr))
}
