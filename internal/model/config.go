package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the Smartlead API client.
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	PageSize          int           `mapstructure:"page_size" yaml:"page_size"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	SearchDebounceMS int `mapstructure:"search_debounce_ms" yaml:"search_debounce_ms"`
	ToastMS          int `mapstructure:"toast_ms" yaml:"toast_ms"`
	Overscan         int `mapstructure:"overscan" yaml:"overscan"`
}

// SearchDebounce returns the search settle delay.
func (d DisplayConfig) SearchDebounce() time.Duration {
	return time.Duration(d.SearchDebounceMS) * time.Millisecond
}

// ToastDuration returns how long a notification stays visible.
func (d DisplayConfig) ToastDuration() time.Duration {
	return time.Duration(d.ToastMS) * time.Millisecond
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// HistoryConfig controls the scan history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

// ConfigDir returns ~/.config/healthmon, or "." when the home directory
// cannot be determined.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "healthmon")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/healthmon/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// setDefaults registers the default value of every key.
func setDefaults(v *viper.Viper) {
	dir := ConfigDir()
	v.SetDefault("api.base_url", "https://server.smartlead.ai/api/v1")
	v.SetDefault("api.page_size", 100)
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("api.requests_per_second", 10.0)
	v.SetDefault("display.search_debounce_ms", 300)
	v.SetDefault("display.toast_ms", 3000)
	v.SetDefault("display.overscan", 5)
	v.SetDefault("log.path", filepath.Join(dir, "healthmon.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.db_path", filepath.Join(dir, "history.db"))
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	v := viper.New()
	setDefaults(v)
	cfg := &AppConfig{}
	// Unmarshalling defaults alone cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed HEALTHMON_ (e.g. HEALTHMON_API_BASE_URL)
// override file values. If the file does not exist, defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("healthmon")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.API.PageSize <= 0 {
		cfg.API.PageSize = 100
	}
	if cfg.Display.Overscan < 0 {
		cfg.Display.Overscan = 0
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.page_size", cfg.API.PageSize)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.requests_per_second", cfg.API.RequestsPerSecond)
	v.Set("display.search_debounce_ms", cfg.Display.SearchDebounceMS)
	v.Set("display.toast_ms", cfg.Display.ToastMS)
	v.Set("display.overscan", cfg.Display.Overscan)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.db_path", cfg.History.DBPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
