// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const DriverSQLite = "sqlite"

type AppConfig struct {
	Name        string `yaml:"name" env:"APP_NAME"`
	Environment string `yaml:"environment" env:"APP_ENVIRONMENT"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"DATABASE_DRIVER"`
	Filename string `yaml:"filename" env:"DATABASE_FILENAME"`
}

type AuditConfig struct {
	// Schedule is a standard five-field cron expression. Empty disables the job.
	Schedule string        `yaml:"schedule" env:"AUDIT_SCHEDULE"`
	Timeout  time.Duration `yaml:"timeout" env:"AUDIT_TIMEOUT"`
}

type SESConfig struct {
	Region          string `yaml:"region" env:"SES_REGION"`
	Sender          string `yaml:"sender" env:"SES_SENDER"`
	AccessKeyID     string `yaml:"-" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"-" env:"AWS_SECRET_ACCESS_KEY"`
}

type NotificationsConfig struct {
	Recipients []string  `yaml:"recipients" env:"NOTIFY_RECIPIENTS" envSeparator:","`
	SES        SESConfig `yaml:"ses"`
}

// Enabled reports whether incident e-mail is fully configured.
func (n NotificationsConfig) Enabled() bool {
	return len(n.Recipients) > 0 && n.SES.Region != "" && n.SES.Sender != ""
}

type Config struct {
	App           AppConfig           `yaml:"app"`
	Database      DatabaseConfig      `yaml:"database"`
	Audit         AuditConfig         `yaml:"audit"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// Load loads the .env file next to configPath, the YAML file itself, and
// finally environment overrides.
func Load(configPath string) (*Config, error) {
	return load(configPath, false)
}

// LoadOrDefault is Load, except that a missing config file means the
// defaults plus environment overrides.
func LoadOrDefault(configPath string) (*Config, error) {
	return load(configPath, true)
}

func load(configPath string, allowMissing bool) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !(allowMissing && os.IsNotExist(err)) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults without reading the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "leaguedesk",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			Filename: "data/league.db",
		},
		Audit: AuditConfig{
			Schedule: "0 3 * * *",
			Timeout:  2 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if strings.TrimSpace(c.Audit.Schedule) != "" {
		if _, err := cron.ParseStandard(c.Audit.Schedule); err != nil {
			return fmt.Errorf("invalid audit schedule %q: %w", c.Audit.Schedule, err)
		}
		if c.Audit.Timeout <= 0 {
			return fmt.Errorf("audit timeout must be positive")
		}
	}

	n := c.Notifications
	if len(n.Recipients) > 0 && (n.SES.Region == "" || n.SES.Sender == "") {
		return fmt.Errorf("notification recipients require ses region and sender")
	}
	if n.Enabled() && (n.SES.AccessKeyID == "" || n.SES.SecretAccessKey == "") {
		return fmt.Errorf("ses credentials are required when notifications are enabled")
	}

	return nil
}
