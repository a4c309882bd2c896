package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Port           int     `mapstructure:"port"`
	BaseURL        string  `mapstructure:"base_url"`       // Base URL for canonical links
	SQLitePath     string  `mapstructure:"sqlite_path"`    // Durable key/value storage
	LocalesPath    string  `mapstructure:"locales_path"`   // Overrides the embedded dictionaries
	DefaultLocale  string  `mapstructure:"default_locale"` // Locale used before a visitor picks one
	SessionSecret  string  `mapstructure:"session_secret"`
	SessionTTL     int     `mapstructure:"session_ttl_min"`    // Idle visitor sessions are dropped after this
	CheckInterval  int     `mapstructure:"check_interval_min"` // How often idle sessions are reaped
	MaxRequestSize float64 `mapstructure:"max_request_mib"`
	UserLogin      string  `mapstructure:"user_login"`
	UserPassword   string  `mapstructure:"user_password"`
	AdminLogin     string  `mapstructure:"admin_login"`
	AdminPassword  string  `mapstructure:"admin_password"`
}

var defaults = map[string]any{
	"port":               3002,
	"base_url":           "http://localhost:3002/",
	"sqlite_path":        "/data/uploadpro.db",
	"locales_path":       "",
	"default_locale":     "ar",
	"session_secret":     "change-me-in-production",
	"session_ttl_min":    120,
	"check_interval_min": 10,
	"max_request_mib":    512.0,
	"user_login":         "user",
	"user_password":      "user123",
	"admin_login":        "admin",
	"admin_password":     "admin123",
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("UPLOADPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads a YAML configuration file, filling unset keys with defaults
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return decode(v)
}

// Default returns the built-in configuration, honoring environment overrides
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	return &cfg, nil
}

func (c *Config) MaxRequestToBytes() int64 {
	return int64(c.MaxRequestSize * 1024 * 1024)
}

func (c *Config) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Minute
}

func (c *Config) CheckEvery() time.Duration {
	return time.Duration(c.CheckInterval) * time.Minute
}

// Origin is the base URL without its trailing slash
func (c *Config) Origin() string {
	return strings.TrimSuffix(c.BaseURL, "/")
}
