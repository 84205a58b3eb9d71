package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hacksoc/calendar-api/pkg/calendar"
	"github.com/hacksoc/calendar-api/pkg/nats"
	"github.com/hacksoc/calendar-api/pkg/retry"
)

// APIKeyEnv is the environment variable holding the Google API key
const APIKeyEnv = "CALENDAR_API_KEY"

const (
	FeedTypeGoogle = "google"
	FeedTypeICal   = "ical"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Feed     FeedConfig     `yaml:"feed"`
	Calendar CalendarConfig `yaml:"calendar"`
	Retry    retry.Config   `yaml:"retry"`
	NATS     nats.Config    `yaml:"nats"`
	Logging  LoggingConfig  `yaml:"logging"`
	TestMode bool           `yaml:"test_mode"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type FeedConfig struct {
	Type            string        `yaml:"type"`
	CalendarID      string        `yaml:"calendar_id"`
	APIKey          string        `yaml:"api_key"`
	APIKeyFile      string        `yaml:"api_key_file"`
	CredentialsFile string        `yaml:"credentials_file"`
	URL             string        `yaml:"url"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	MaxResults      int64         `yaml:"max_results"`
	Timeout         time.Duration `yaml:"timeout"`
}

type CalendarConfig struct {
	WeekStart string `yaml:"week_start"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used for any setting the file leaves out
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          ":4567",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Feed: FeedConfig{
			Type:       FeedTypeGoogle,
			APIKeyFile: ".key",
			MaxResults: 2500,
			Timeout:    30 * time.Second,
		},
		Calendar: CalendarConfig{
			WeekStart: "monday",
		},
		Retry: *retry.DefaultConfig(),
		NATS:  *nats.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at configPath over the defaults, then resolves the
// feed credential from .env, the environment and the key file. An empty
// configPath uses the defaults alone.
func Load(configPath string, testMode bool) (*Config, error) {
	return load(configPath, ".env", testMode)
}

func load(configPath, envFile string, testMode bool) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.TestMode = config.TestMode || testMode

	if err := config.resolveAPIKey(); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// resolveAPIKey applies the environment override, then falls back to the key file
func (c *Config) resolveAPIKey() error {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		c.Feed.APIKey = key
	}
	if c.Feed.APIKey != "" || c.Feed.APIKeyFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.Feed.APIKeyFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read API key file: %w", err)
	}

	c.Feed.APIKey = strings.TrimSpace(string(data))
	return nil
}

func (c *Config) validate() error {
	if c.Feed.Type == "" {
		c.Feed.Type = FeedTypeGoogle
	}

	switch c.Feed.Type {
	case FeedTypeGoogle:
		if c.Feed.CalendarID == "" && !c.TestMode {
			return fmt.Errorf("feed: calendar_id is required")
		}
		if c.Feed.APIKey == "" && c.Feed.CredentialsFile == "" && !c.TestMode {
			return fmt.Errorf("feed: no API key found (set api_key, %s or %s)", APIKeyEnv, c.Feed.APIKeyFile)
		}
	case FeedTypeICal:
		if c.Feed.URL == "" {
			return fmt.Errorf("feed: url is required for ical feeds")
		}
	default:
		return fmt.Errorf("feed: unknown type %q", c.Feed.Type)
	}

	if c.Feed.MaxResults <= 0 {
		c.Feed.MaxResults = 2500
	}
	if c.Feed.Timeout <= 0 {
		c.Feed.Timeout = 30 * time.Second
	}

	if _, err := calendar.ParseWeekday(c.Calendar.WeekStart); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	if c.Server.Listen == "" {
		c.Server.Listen = ":4567"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = 1
	}

	if c.NATS.Enabled() && c.NATS.Subject == "" {
		return fmt.Errorf("nats: subject is required when url is set")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	return nil
}

// WeekStart returns the configured first day of the week
func (c *Config) WeekStart() time.Weekday {
	day, err := calendar.ParseWeekday(c.Calendar.WeekStart)
	if err != nil {
		return calendar.WeekStart
	}
	return day
}

// Source describes the configured feed for a provider
func (c *Config) Source() calendar.Source {
	return calendar.Source{
		CalendarID:      c.Feed.CalendarID,
		URL:             c.Feed.URL,
		APIKey:          c.Feed.APIKey,
		CredentialsFile: c.Feed.CredentialsFile,
		Username:        c.Feed.Username,
		Password:        c.Feed.Password,
		MaxResults:      c.Feed.MaxResults,
		Timeout:         c.Feed.Timeout,
	}
}
