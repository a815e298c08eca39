// Package config loads portal client configuration from the environment,
// with an optional .env file for development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved client configuration.
type Config struct {
	// APIBaseURL is the portal backend root.
	APIBaseURL string `mapstructure:"api_base_url"`

	// RequestTimeout bounds every gateway request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// RequestsPerSecond throttles the gateway; 0 disables throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// PrefsNamespace prefixes every local preference key.
	PrefsNamespace string `mapstructure:"prefs_namespace"`

	// PrefsFile is the path of the file-backed preference store. Empty
	// selects the in-memory backend.
	PrefsFile string `mapstructure:"prefs_file"`

	// RedisAddr, when set, selects the Redis preference backend instead of
	// the file one.
	RedisAddr string `mapstructure:"redis_addr"`

	// BusPollInterval is the bus feed watcher cadence.
	BusPollInterval time.Duration `mapstructure:"bus_poll_interval"`

	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from VIOLA_* environment variables. A .env file in
// the working directory is applied first when present; real environment
// variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("viola")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:3000/api")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("requests_per_second", 0)
	v.SetDefault("prefs_namespace", "viola_")
	v.SetDefault("prefs_file", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("bus_poll_interval", 30*time.Second)
	v.SetDefault("log_level", "info")

	// AutomaticEnv alone does not surface unset keys through Unmarshal;
	// binding each key explicitly does.
	for _, key := range []string{
		"api_base_url", "request_timeout", "requests_per_second",
		"prefs_namespace", "prefs_file", "redis_addr",
		"bus_poll_interval", "log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("api base url must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("request timeout must be positive")
	}
	return cfg, nil
}
