// Package config loads the dashboard settings from an optional YAML file and
// the environment. Environment values win over the file; anything unset keeps
// its default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys.
const (
	EnvConfigPath  = "MATCHTIMER_CONFIG"
	EnvServerURL   = "MATCHTIMER_SERVER_URL"
	EnvLogLevel    = "MATCHTIMER_LOG_LEVEL"
	EnvPushEnabled = "MATCHTIMER_PUSH_ENABLED"
)

// Config holds the runtime settings of the dashboard.
type Config struct {
	ServerURL      string        `yaml:"server_url"`
	AppID          string        `yaml:"app_id"`
	LogLevel       string        `yaml:"log_level"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	ClockInterval time.Duration `yaml:"clock_interval"`
	LogsInterval  time.Duration `yaml:"logs_interval"`

	Push struct {
		Enabled          bool          `yaml:"enabled"`
		RetryDelay       time.Duration `yaml:"retry_delay"`
		HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	} `yaml:"push"`

	Sounds struct {
		Start string `yaml:"start"`
		Stop  string `yaml:"stop"`
	} `yaml:"sounds"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	var c Config
	c.ServerURL = "http://localhost:3443"
	c.AppID = "com.matchtimer.dashboard"
	c.LogLevel = "info"
	c.RequestTimeout = 10 * time.Second
	c.ClockInterval = time.Second
	c.LogsInterval = 5 * time.Second
	c.Push.Enabled = true
	c.Push.RetryDelay = time.Second
	c.Push.HandshakeTimeout = 10 * time.Second
	c.Sounds.Start = "/static/startkamp.mp3"
	c.Sounds.Stop = "/static/stoppkamp.mp3"
	return c
}

// Load reads the YAML file at path on top of the defaults, then applies the
// environment. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.ServerURL = strings.TrimRight(getEnv(EnvServerURL, cfg.ServerURL), "/")
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	cfg.Push.Enabled = getEnvAsBool(EnvPushEnabled, cfg.Push.Enabled)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server_url is required")
	}
	if c.ClockInterval <= 0 || c.LogsInterval <= 0 {
		return errors.New("poll intervals must be positive")
	}
	if c.Push.RetryDelay <= 0 {
		return errors.New("push.retry_delay must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
