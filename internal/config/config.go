// Package config loads service settings from the environment (and an
// optional .env file) using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the verification API.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	DatabaseDSN string `mapstructure:"DB_DSN_PRIMARY"`

	JWTSecret      string `mapstructure:"JWT_SECRET"`
	AdminRoleClaim string `mapstructure:"ADMIN_ROLE_CLAIM"`

	SiteURL           string `mapstructure:"SITE_URL"`
	CORSAllowedOrigin string `mapstructure:"CORS_ALLOWED_ORIGIN"`

	IdentityURL            string `mapstructure:"IDENTITY_URL"`
	IdentityServiceKey     string `mapstructure:"IDENTITY_SERVICE_KEY"`
	IdentityTimeoutSeconds int    `mapstructure:"IDENTITY_TIMEOUT_SECONDS"`

	StripeSecretKey      string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeTimeoutSeconds int    `mapstructure:"STRIPE_TIMEOUT_SECONDS"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	RedisURL              string `mapstructure:"REDIS_URL"`
	AccountLockTTLSeconds int    `mapstructure:"ACCOUNT_LOCK_TTL_SECONDS"`

	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	AccountEventsExchange string `mapstructure:"ACCOUNT_EVENTS_EXCHANGE"`
}

var envKeys = []string{
	"SERVER_PORT", "ENVIRONMENT", "LOG_LEVEL",
	"DB_DSN_PRIMARY",
	"JWT_SECRET", "ADMIN_ROLE_CLAIM",
	"SITE_URL", "CORS_ALLOWED_ORIGIN",
	"IDENTITY_URL", "IDENTITY_SERVICE_KEY", "IDENTITY_TIMEOUT_SECONDS",
	"STRIPE_SECRET_KEY", "STRIPE_TIMEOUT_SECONDS",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
	"REDIS_URL", "ACCOUNT_LOCK_TTL_SECONDS",
	"RABBITMQ_URL", "ACCOUNT_EVENTS_EXCHANGE",
}

// Load reads configuration from environment variables, falling back to a
// .env file in path and then to defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_ROLE_CLAIM", "admin")
	v.SetDefault("SITE_URL", "http://localhost:5173")
	v.SetDefault("IDENTITY_TIMEOUT_SECONDS", 10)
	v.SetDefault("STRIPE_TIMEOUT_SECONDS", 10)
	v.SetDefault("SMTP_PORT", "465")
	v.SetDefault("ACCOUNT_LOCK_TTL_SECONDS", 90)
	v.SetDefault("ACCOUNT_EVENTS_EXCHANGE", "account_events")

	// Unmarshal only sees keys viper already knows about.
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if cfg.CORSAllowedOrigin == "" {
		cfg.CORSAllowedOrigin = cfg.SiteURL
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	if c.DatabaseDSN == "" {
		missing = append(missing, "DB_DSN_PRIMARY")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.IdentityURL == "" {
		missing = append(missing, "IDENTITY_URL")
	}
	if c.IdentityServiceKey == "" {
		missing = append(missing, "IDENTITY_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// IdentityTimeout is the per-request timeout for identity gateway calls.
func (c Config) IdentityTimeout() time.Duration {
	if c.IdentityTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.IdentityTimeoutSeconds) * time.Second
}

// StripeTimeout is the per-request timeout for billing calls. Retries are
// disabled so one call never outlives it.
func (c Config) StripeTimeout() time.Duration {
	if c.StripeTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.StripeTimeoutSeconds) * time.Second
}

// AccountLockTTL bounds how long one workflow may hold an account lock.
func (c Config) AccountLockTTL() time.Duration {
	if c.AccountLockTTLSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(c.AccountLockTTLSeconds) * time.Second
}

// smtpTimeout mirrors the SMTP sender's fixed dial and session deadline.
const smtpTimeout = 15 * time.Second

// WorstCaseReview is the longest a rejection can keep its lock: four billing
// calls, one identity call and one email. AccountLockTTL should exceed it.
func (c Config) WorstCaseReview() time.Duration {
	return 4*c.StripeTimeout() + c.IdentityTimeout() + smtpTimeout
}

// CreatePasswordURL is where approved accounts land from their invite link.
func (c Config) CreatePasswordURL() string {
	return c.SiteURL + "/auth/create-password"
}

// UpdatePasswordURL is where password-reset emails redirect to.
func (c Config) UpdatePasswordURL() string {
	return c.SiteURL + "/auth/update-password"
}
