// Package config loads application settings through viper: defaults first,
// then the settings file, then MULL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Provider     ProviderConfig `mapstructure:"provider"`
	ShowThinking bool           `mapstructure:"show_thinking"`

	// InternalReasoningModels lists model names (exact or up to the tag
	// separator) known to reason without emitting a visible trace.
	InternalReasoningModels []string `mapstructure:"internal_reasoning_models"`

	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ProviderConfig points at the Ollama-compatible backend.
type ProviderConfig struct {
	URL          string        `mapstructure:"url"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds the optional persistence settings. An empty URL
// disables persistence entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig controls the log file sink. The TUI owns the terminal, so
// logs always go to a file.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Persist bool   `mapstructure:"persist"`
}

var global *Config

// Load reads configuration into the package-level config. cfgFile may be
// empty, in which case the default settings path is searched. A missing
// settings file is not an error; defaults and environment apply.
func Load(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("settings")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(settingsDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("MULL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	global = cfg
	return nil
}

func setDefaults() {
	viper.SetDefault("provider.url", "http://localhost:11434")
	viper.SetDefault("provider.model", "llama3")
	viper.SetDefault("provider.timeout", "60s")
	viper.SetDefault("show_thinking", true)
	viper.SetDefault("internal_reasoning_models", []string{})
	viper.SetDefault("database.url", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "mull.log")
	viper.SetDefault("logging.persist", false)
}

// Get returns the loaded configuration, loading defaults on first use.
func Get() *Config {
	if global == nil {
		if err := Load(""); err != nil {
			global = &Config{}
		}
	}
	return global
}

// Reset clears the loaded config. Used by tests.
func Reset() {
	global = nil
	viper.Reset()
}

func settingsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mull"
	}
	return filepath.Join(home, ".mull")
}

// BuildSettingsPath resolves a file name inside the settings directory.
func BuildSettingsPath(name string) string {
	return filepath.Join(settingsDir(), name)
}
