package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Calendar CalendarConfig `yaml:"calendar"`
	Slack    SlackConfig    `yaml:"slack"`
	Sync     SyncConfig     `yaml:"sync"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CalendarConfig holds Google Calendar settings.
type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file"` // OAuth2 client secret JSON
	TokenFile       string `yaml:"token_file"`       // persisted OAuth2 token JSON
	CalendarID      string `yaml:"calendar_id"`      // "primary" for the main calendar
}

// SlackConfig holds Slack integration settings.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// SyncConfig holds sync behavior settings. These are the only settings that
// may change on a live reload.
type SyncConfig struct {
	ScanLimit  int           `yaml:"scan_limit"`  // most recent messages inspected per run
	DaysAhead  int           `yaml:"days_ahead"`  // future event window in days
	MaxResults int           `yaml:"max_results"` // events fetched per run, upper bound
	Interval   time.Duration `yaml:"interval"`    // loop mode sync interval
	Timeout    time.Duration `yaml:"timeout"`     // wall-clock budget per run
}

// ServerConfig holds the loop-mode ops HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// Load from file if exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			// Expand environment variables in YAML
			expandedData := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// overrideFromEnv overrides config values from environment variables.
func (c *Config) overrideFromEnv() {
	// Calendar
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Calendar.CredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_TOKEN_FILE"); v != "" {
		c.Calendar.TokenFile = v
	}
	if v := os.Getenv("GOOGLE_CALENDAR_ID"); v != "" {
		c.Calendar.CalendarID = v
	}

	// Slack
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_CHANNEL_ID"); v != "" {
		c.Slack.ChannelID = v
	}

	// Sync
	if v := os.Getenv("SYNC_SCAN_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.Sync.ScanLimit = limit
		}
	}
	if v := os.Getenv("SYNC_DAYS_AHEAD"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.Sync.DaysAhead = days
		}
	}
	if v := os.Getenv("SYNC_MAX_RESULTS"); v != "" {
		if max, err := strconv.Atoi(v); err == nil {
			c.Sync.MaxResults = max
		}
	}
	if v := os.Getenv("SYNC_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil {
			c.Sync.Interval = interval
		}
	}
	if v := os.Getenv("SYNC_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			c.Sync.Timeout = timeout
		}
	}

	// Server
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	// Logging
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// applyDefaults sets default values for unset config options.
func (c *Config) applyDefaults() {
	// Calendar defaults
	if c.Calendar.CredentialsFile == "" {
		c.Calendar.CredentialsFile = "credentials.json"
	}
	if c.Calendar.TokenFile == "" {
		c.Calendar.TokenFile = "token.json"
	}
	if c.Calendar.CalendarID == "" {
		c.Calendar.CalendarID = "primary"
	}

	// Sync defaults
	if c.Sync.ScanLimit == 0 {
		c.Sync.ScanLimit = 200
	}
	if c.Sync.DaysAhead == 0 {
		c.Sync.DaysAhead = 7
	}
	if c.Sync.MaxResults == 0 {
		c.Sync.MaxResults = 100
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 30 * time.Minute
	}
	if c.Sync.Timeout == 0 {
		c.Sync.Timeout = 2 * time.Minute
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// validate checks that required configuration is present.
func (c *Config) validate() error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if c.Slack.ChannelID == "" {
		return fmt.Errorf("slack.channel_id is required")
	}

	if c.Sync.ScanLimit < 1 || c.Sync.ScanLimit > 1000 {
		return fmt.Errorf("sync.scan_limit must be between 1 and 1000, got %d", c.Sync.ScanLimit)
	}
	if c.Sync.DaysAhead < 1 || c.Sync.DaysAhead > 365 {
		return fmt.Errorf("sync.days_ahead must be between 1 and 365, got %d", c.Sync.DaysAhead)
	}
	if c.Sync.MaxResults < 1 || c.Sync.MaxResults > 2500 {
		return fmt.Errorf("sync.max_results must be between 1 and 2500, got %d", c.Sync.MaxResults)
	}
	if c.Sync.Interval < 5*time.Minute || c.Sync.Interval > 24*time.Hour {
		return fmt.Errorf("sync.interval must be between 5m and 24h, got %s", c.Sync.Interval)
	}
	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("sync.timeout must be positive, got %s", c.Sync.Timeout)
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}
