package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/validation"
)

// Config holds all configuration for the application.
type Config struct {
	Linode    LinodeConfig
	Email     EmailConfig
	SMTP      SMTPConfig
	Lookup    LookupConfig
	Scheduler SchedulerConfig
	Log       LogConfig
	Server    ServerConfig
}

// LinodeConfig holds Linode API and firewall selection configuration.
type LinodeConfig struct {
	Token       string   `env:"LINODE_TOKEN"`
	FirewallIDs []string `env:"LINODE_FIREWALL_IDS" envSeparator:","`
	LabelName   string   `env:"LINODE_LABEL_NAME"`
	URL         string   `env:"LINODE_URL"`
	FileShim    string   `env:"LINODE_FILE_SHIM"` // Path to file for testing shim (disables real API)
}

// EmailConfig holds the notification sender, recipient and content settings.
type EmailConfig struct {
	FromName  string `env:"FROM_NAME" envDefault:"Linode Firewall Autoupdater"`
	FromEmail string `env:"FROM_EMAIL"`
	ToName    string `env:"TO_NAME"`
	ToEmail   string `env:"TO_EMAIL"`
	ProxyURL  string `env:"PROXY_URL"`
}

// SMTPConfig holds the mail transport configuration.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
}

// LookupConfig holds public address lookup configuration.
type LookupConfig struct {
	URL           string `env:"IP_LOOKUP_URL"` // Empty selects ipify.DefaultURL
	NotifyOnError bool   `env:"NOTIFY_ON_LOOKUP_ERROR" envDefault:"false"`
}

// SchedulerConfig holds pass scheduling configuration.
type SchedulerConfig struct {
	Interval   time.Duration `env:"PASS_INTERVAL" envDefault:"5m"`
	RunOnStart bool          `env:"RUN_ON_START" envDefault:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// ServerConfig holds the optional status server configuration.
type ServerConfig struct {
	Enabled bool   `env:"SERVER_ENABLED" envDefault:"false"`
	Host    string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port    int    `env:"SERVER_PORT" envDefault:"8080"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Linode); err != nil {
		return nil, fmt.Errorf("parsing linode config: %w", err)
	}
	if err := env.Parse(&cfg.Email); err != nil {
		return nil, fmt.Errorf("parsing email config: %w", err)
	}
	if err := env.Parse(&cfg.SMTP); err != nil {
		return nil, fmt.Errorf("parsing smtp config: %w", err)
	}
	if err := env.Parse(&cfg.Lookup); err != nil {
		return nil, fmt.Errorf("parsing lookup config: %w", err)
	}
	if err := env.Parse(&cfg.Scheduler); err != nil {
		return nil, fmt.Errorf("parsing scheduler config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}
	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}

	cfg.Linode.FirewallIDs = normalizeIDs(cfg.Linode.FirewallIDs)

	return cfg, nil
}

// normalizeIDs trims whitespace and drops empty and repeated entries, keeping first-seen order.
func normalizeIDs(ids []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	// If using file shim, the Linode token is not required
	if c.Linode.FileShim == "" {
		if c.Linode.Token == "" {
			return fmt.Errorf("LINODE_TOKEN is required (or set LINODE_FILE_SHIM for testing)")
		}
	}
	if len(c.Linode.FirewallIDs) == 0 {
		return fmt.Errorf("LINODE_FIREWALL_IDS is required")
	}
	if c.Linode.LabelName == "" {
		return fmt.Errorf("LINODE_LABEL_NAME is required")
	}

	if c.Email.FromEmail == "" {
		return fmt.Errorf("FROM_EMAIL is required")
	}
	if c.Email.ToEmail == "" {
		return fmt.Errorf("TO_EMAIL is required")
	}
	if c.Email.ProxyURL == "" {
		return fmt.Errorf("PROXY_URL is required")
	}

	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP_HOST is required")
	}
	if c.SMTP.User == "" {
		return fmt.Errorf("SMTP_USER is required")
	}
	if c.SMTP.Password == "" {
		return fmt.Errorf("SMTP_PASSWORD is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("PASS_INTERVAL must be positive")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of console, json")
	}

	return c.validateValues()
}

// validateValues checks the format of the settings that are sent to Linode or used in mail.
func (c *Config) validateValues() error {
	var errs validation.ValidationErrors

	// Shim files may key firewalls by any name.
	if c.Linode.FileShim == "" {
		for _, id := range c.Linode.FirewallIDs {
			errs.Check("LINODE_FIREWALL_IDS", id, validation.ValidateFirewallID(id))
		}
	}
	errs.Check("LINODE_LABEL_NAME", c.Linode.LabelName, validation.ValidateLabelPrefix(c.Linode.LabelName))
	if c.Linode.URL != "" {
		errs.Check("LINODE_URL", c.Linode.URL, validation.ValidateURL(c.Linode.URL))
	}
	errs.Check("FROM_EMAIL", c.Email.FromEmail, validation.ValidateEmail(c.Email.FromEmail))
	errs.Check("TO_EMAIL", c.Email.ToEmail, validation.ValidateEmail(c.Email.ToEmail))
	errs.Check("PROXY_URL", c.Email.ProxyURL, validation.ValidateURL(c.Email.ProxyURL))
	if c.Lookup.URL != "" {
		errs.Check("IP_LOOKUP_URL", c.Lookup.URL, validation.ValidateURL(c.Lookup.URL))
	}

	return errs.Err()
}

// UseFileShim returns true if the file shim should be used instead of the real API.
func (c *Config) UseFileShim() bool {
	return c.Linode.FileShim != ""
}
