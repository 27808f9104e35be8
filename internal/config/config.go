package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/egoavara/plughub/internal/logging"
)

const (
	// DefaultHubURL is the public plugin hub API
	DefaultHubURL = "https://hub.meltano.com/meltano/api/v1"

	// EnvHubURL overrides hub.url
	EnvHubURL = "PLUGHUB_HUB_URL"
)

// HubConfig contains hub client settings
type HubConfig struct {
	URL            string `json:"url"`
	Retries        int    `json:"retries"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// Timeout returns the per-request timeout
func (h HubConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// DiscoverConfig contains discover command defaults
type DiscoverConfig struct {
	Parallel int `json:"parallel"` // number of concurrent hub requests, 1 = sequential
}

// Config represents the main configuration file structure
type Config struct {
	Locale   string         `json:"locale"`   // "auto" or ISO format (e.g., "ko-KR", "en-US")
	LogLevel string         `json:"logLevel"` // trace, debug, info, warn, error, off
	Hub      HubConfig      `json:"hub"`
	Discover DiscoverConfig `json:"discover"`
}

var (
	cfg     *Config
	cfgOnce sync.Once
	cfgMu   sync.RWMutex
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Locale:   "auto",
		LogLevel: "warn",
		Hub: HubConfig{
			URL:            DefaultHubURL,
			Retries:        2,
			TimeoutSeconds: 30,
		},
		Discover: DiscoverConfig{
			Parallel: 1,
		},
	}
}

// Load loads the configuration from file without environment overrides,
// so it is safe to modify and Save
func Load() (*Config, error) {
	cfgMu.RLock()
	defer cfgMu.RUnlock()

	return loadFrom(ConfigPath())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, err
	}

	config := NewConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyDefaults(config)
	return config, nil
}

// applyDefaults fills zero values left by a partial config file
func applyDefaults(config *Config) {
	defaults := NewConfig()

	if config.Locale == "" {
		config.Locale = defaults.Locale
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.Hub.URL == "" {
		config.Hub.URL = defaults.Hub.URL
	}
	if config.Hub.Retries < 0 {
		config.Hub.Retries = 0
	}
	if config.Hub.TimeoutSeconds <= 0 {
		config.Hub.TimeoutSeconds = defaults.Hub.TimeoutSeconds
	}
	if config.Discover.Parallel <= 0 {
		config.Discover.Parallel = defaults.Discover.Parallel
	}
}

func applyEnv(config *Config) *Config {
	if url := os.Getenv(EnvHubURL); url != "" {
		config.Hub.URL = url
	}
	return config
}

// Save saves the configuration to file
func Save(config *Config) error {
	cfgMu.Lock()
	defer cfgMu.Unlock()

	if err := EnsureDir(PlughubDir()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}

// Get returns the effective configuration (singleton), with environment
// overrides applied. Never Save it.
func Get() *Config {
	cfgOnce.Do(func() {
		loaded, err := Load()
		if err != nil {
			loaded = NewConfig()
		}
		cfg = applyEnv(loaded)
	})
	return cfg
}

// GetLocale returns the configured locale
func GetLocale() string {
	return Get().Locale
}

// Keys lists the settable configuration keys
func Keys() []string {
	return []string{"locale", "logLevel", "hub.url", "hub.retries", "hub.timeoutSeconds", "discover.parallel"}
}

// Set updates a single key on config
func (c *Config) Set(key, value string) error {
	switch key {
	case "locale":
		c.Locale = value
	case "logLevel":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(strings.TrimSpace(value))
	case "hub.url":
		if value == "" {
			return fmt.Errorf("hub.url must not be empty")
		}
		c.Hub.URL = value
	case "hub.retries":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		c.Hub.Retries = n
	case "hub.timeoutSeconds":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s must be greater than zero", key)
		}
		c.Hub.TimeoutSeconds = n
	case "discover.parallel":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s must be greater than zero", key)
		}
		c.Discover.Parallel = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func parseNonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid value '%s' for %s: expected a non-negative integer", value, key)
	}
	return n, nil
}
