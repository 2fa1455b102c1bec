package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"lottosim/domain/entities"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken          string        `yaml:"discord_token"`
	DiscordGuildID        string        `yaml:"discord_guild_id"`
	DiscordUpdateInterval time.Duration `yaml:"discord_update_interval"` // Minimum gap between simulation message edits

	// NATS configuration
	NATSEnabled bool   `yaml:"nats_enabled"`
	NATSServers string `yaml:"nats_servers"`

	// Draw and simulation tuning
	RevealDelay         time.Duration `yaml:"reveal_delay"`
	TrialPause          time.Duration `yaml:"trial_pause"`
	HistoryLimit        int           `yaml:"history_limit"`
	ProgressLogInterval int64         `yaml:"progress_log_interval"`
	DefaultStopTiers    string        `yaml:"default_stop_tiers"` // e.g. "6" or "4,5,6"

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "text" or "json"

	// Environment
	Environment string `yaml:"environment"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Init loads the configuration from file, or $CONFIG_FILE when file is
// empty, and installs it as the global instance
func Init(file string) (*Config, error) {
	cfg, err := Load(configFile(file))
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	instance = cfg
	return cfg, nil
}

func configFile(file string) string {
	if file == "" {
		return os.Getenv("CONFIG_FILE")
	}
	return file
}

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load(configFile(""))
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load builds a configuration from defaults, then the optional YAML file,
// then environment variables.
func Load(file string) (*Config, error) {
	cfg := defaults()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DiscordUpdateInterval: 2 * time.Second,
		NATSServers:           "nats://localhost:4222",
		RevealDelay:           5 * time.Second,
		TrialPause:            time.Millisecond,
		HistoryLimit:          500,
		ProgressLogInterval:   100,
		DefaultStopTiers:      "6",
		LogLevel:              "info",
		LogFormat:             "text",
		Environment:           "development",
	}
}

// applyEnv overrides fields whose environment variable is set
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DISCORD_TOKEN", &cfg.DiscordToken)
	setString("DISCORD_GUILD_ID", &cfg.DiscordGuildID)
	setString("NATS_SERVERS", &cfg.NATSServers)
	setString("DEFAULT_STOP_TIERS", &cfg.DefaultStopTiers)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setString("LOG_FORMAT", &cfg.LogFormat)
	setString("ENVIRONMENT", &cfg.Environment)

	if v := os.Getenv("NATS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid NATS_ENABLED %q: %w", v, err)
		}
		cfg.NATSEnabled = enabled
	}

	durations := map[string]*time.Duration{
		"REVEAL_DELAY":            &cfg.RevealDelay,
		"TRIAL_PAUSE":             &cfg.TrialPause,
		"DISCORD_UPDATE_INTERVAL": &cfg.DiscordUpdateInterval,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HISTORY_LIMIT %q: %w", v, err)
		}
		cfg.HistoryLimit = n
	}
	if v := os.Getenv("PROGRESS_LOG_INTERVAL"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PROGRESS_LOG_INTERVAL %q: %w", v, err)
		}
		cfg.ProgressLogInterval = n
	}
	return nil
}

// Validate checks values that would make the engine misbehave
func (c *Config) Validate() error {
	if c.RevealDelay < 0 || c.TrialPause < 0 {
		return errors.New("reveal_delay and trial_pause cannot be negative")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.ProgressLogInterval <= 0 {
		return fmt.Errorf("progress_log_interval must be positive, got %d", c.ProgressLogInterval)
	}
	if _, err := c.StopTiers(); err != nil {
		return fmt.Errorf("invalid default_stop_tiers: %w", err)
	}
	return nil
}

// ValidateForBot checks the settings the Discord bot cannot start without
func (c *Config) ValidateForBot() error {
	if c.Environment != "test" && c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	return nil
}

// StopTiers parses DefaultStopTiers
func (c *Config) StopTiers() (entities.TierSet, error) {
	return entities.ParseTierSet(c.DefaultStopTiers)
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns a config with instant draws for tests
func NewTestConfig() *Config {
	cfg := defaults()
	cfg.Environment = "test"
	cfg.DiscordToken = "test-token"
	cfg.RevealDelay = 0
	cfg.TrialPause = 0
	cfg.DiscordUpdateInterval = 0
	return cfg
}
