package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/build-warden/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	Server      ServerConfig
	ReviewBoard ReviewBoardConfig
	Jenkins     JenkinsConfig
	Database    DBConfig
	Polling     PollingConfig
	Notify      NotifyConfig
	Patch       PatchConfig
	Logging     logger.Config
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port string
}

// ReviewBoardConfig holds the review server connection settings.
type ReviewBoardConfig struct {
	URL               string
	Username          string
	Password          string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// JenkinsConfig holds the build server connection settings.
type JenkinsConfig struct {
	URL      string
	Username string
	APIToken string
	Timeout  time.Duration
}

// DBConfig configures the dispatch store. Driver is "postgres" or "sqlite".
type DBConfig struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	Path            string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// PollingConfig controls the poll schedulers.
type PollingConfig struct {
	Interval    time.Duration
	MaxWorkers  int
	PollersFile string
}

// NotifyConfig controls the build-outcome comments.
type NotifyConfig struct {
	UseMarkdown     bool
	ShipItOnSuccess bool
	CustomMessage   string
	QueueWorkers    int
}

// PatchConfig controls diff downloads.
type PatchConfig struct {
	Workspace        string
	DisableAutoApply bool
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("REVIEWBOARD_REQUESTS_PER_SECOND", 5.0)
	viper.SetDefault("REVIEWBOARD_TIMEOUT", "30s")
	viper.SetDefault("JENKINS_URL", "http://localhost:8081")
	viper.SetDefault("JENKINS_TIMEOUT", "30s")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "build-warden.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USERNAME", "warden")
	viper.SetDefault("DB_DATABASE", "build_warden")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")
	viper.SetDefault("POLL_INTERVAL", "5m")
	viper.SetDefault("POLL_MAX_WORKERS", 5)
	viper.SetDefault("POLLERS_FILE", "pollers.yml")
	viper.SetDefault("NOTIFY_USE_MARKDOWN", false)
	viper.SetDefault("NOTIFY_SHIP_IT_ON_SUCCESS", false)
	viper.SetDefault("NOTIFY_QUEUE_WORKERS", 2)
	viper.SetDefault("PATCH_WORKSPACE", ".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("no config file loaded", "error", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{Port: viper.GetString("SERVER_PORT")},
		ReviewBoard: ReviewBoardConfig{
			URL:               normalizeBaseURL(viper.GetString("REVIEWBOARD_URL")),
			Username:          viper.GetString("REVIEWBOARD_USERNAME"),
			Password:          viper.GetString("REVIEWBOARD_PASSWORD"),
			RequestsPerSecond: viper.GetFloat64("REVIEWBOARD_REQUESTS_PER_SECOND"),
			Timeout:           viper.GetDuration("REVIEWBOARD_TIMEOUT"),
		},
		Jenkins: JenkinsConfig{
			URL:      normalizeBaseURL(viper.GetString("JENKINS_URL")),
			Username: viper.GetString("JENKINS_USERNAME"),
			APIToken: viper.GetString("JENKINS_API_TOKEN"),
			Timeout:  viper.GetDuration("JENKINS_TIMEOUT"),
		},
		Database: DBConfig{
			Driver:          strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USERNAME"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_DATABASE"),
			Path:            viper.GetString("DB_PATH"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Polling: PollingConfig{
			Interval:    viper.GetDuration("POLL_INTERVAL"),
			MaxWorkers:  viper.GetInt("POLL_MAX_WORKERS"),
			PollersFile: viper.GetString("POLLERS_FILE"),
		},
		Notify: NotifyConfig{
			UseMarkdown:     viper.GetBool("NOTIFY_USE_MARKDOWN"),
			ShipItOnSuccess: viper.GetBool("NOTIFY_SHIP_IT_ON_SUCCESS"),
			CustomMessage:   viper.GetString("NOTIFY_CUSTOM_MESSAGE"),
			QueueWorkers:    viper.GetInt("NOTIFY_QUEUE_WORKERS"),
		},
		Patch: PatchConfig{
			Workspace:        viper.GetString("PATCH_WORKSPACE"),
			DisableAutoApply: viper.GetBool("PATCH_DISABLE_AUTO_APPLY"),
		},
		Logging: logger.Config{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.ReviewBoard.URL == "" {
		return fmt.Errorf("REVIEWBOARD_URL must be set")
	}
	if _, err := url.ParseRequestURI(c.ReviewBoard.URL); err != nil {
		return fmt.Errorf("REVIEWBOARD_URL is not a valid URL: %w", err)
	}
	if c.ReviewBoard.Username == "" {
		return fmt.Errorf("REVIEWBOARD_USERNAME must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q, expected postgres or sqlite", c.Database.Driver)
	}
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	return nil
}

// normalizeBaseURL makes sure a non-empty URL ends with a slash.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}
