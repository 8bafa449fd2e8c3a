package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Port         string   `mapstructure:"PORT"`
	Env          string   `mapstructure:"ENV"`
	DBURL        string   `mapstructure:"DB_URL"`
	RedisURL     string   `mapstructure:"REDIS_URL"`
	SymmetricKey string   `mapstructure:"SYMMETRIC_KEY"`
	AdminToken   string   `mapstructure:"ADMIN_TOKEN"`
	CORSOrigins  []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	SlotMinutes           int           `mapstructure:"SLOT_MINUTES"`
	ReclaimCancelledSlots bool          `mapstructure:"RECLAIM_CANCELLED_SLOTS"`
	AdmissionLockTTL      time.Duration `mapstructure:"ADMISSION_LOCK_TTL"`
	AdmissionMaxRetries   int           `mapstructure:"ADMISSION_MAX_RETRIES"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	MailFrom string `mapstructure:"MAIL_FROM"`
}

var keys = []string{
	"PORT", "ENV", "DB_URL", "REDIS_URL", "SYMMETRIC_KEY", "ADMIN_TOKEN", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SLOT_MINUTES", "RECLAIM_CANCELLED_SLOTS", "ADMISSION_LOCK_TTL", "ADMISSION_MAX_RETRIES",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "MAIL_FROM",
}

// Load reads the configuration from the environment and an optional .env file.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8930")
	v.SetDefault("ENV", "production")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 15)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("SLOT_MINUTES", 10)
	v.SetDefault("RECLAIM_CANCELLED_SLOTS", false)
	v.SetDefault("ADMISSION_LOCK_TTL", "10s")
	v.SetDefault("ADMISSION_MAX_RETRIES", 3)
	v.SetDefault("SMTP_PORT", 587)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// a missing .env is fine
	_ = v.ReadInConfig()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Env, validation.In("development", "production", "test")),
		validation.Field(&c.DBURL, validation.Required.Error("missing DB_URL environment variable")),
		validation.Field(&c.SymmetricKey,
			validation.Required.Error("missing SYMMETRIC_KEY environment variable"),
			validation.Length(32, 32).Error("SYMMETRIC_KEY must be 32 bytes long")),
		validation.Field(&c.AdminToken, validation.Required.Error("missing ADMIN_TOKEN environment variable")),
		validation.Field(&c.RateLimitRPS, validation.Min(0.1)),
		validation.Field(&c.RateLimitBurst, validation.Min(1)),
		validation.Field(&c.SlotMinutes, validation.Min(1), validation.Max(24*60)),
		validation.Field(&c.AdmissionLockTTL, validation.Min(time.Second)),
		validation.Field(&c.AdmissionMaxRetries, validation.Min(1)),
		validation.Field(&c.SMTPPort, validation.When(c.SMTPHost != "", validation.Required, validation.Min(1), validation.Max(65535))),
		validation.Field(&c.MailFrom, validation.When(c.SMTPHost != "", validation.Required, is.Email)),
	)
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// GetBearerToken returns the token that guards doctor administration
func (c *AppConfig) GetBearerToken() string {
	return c.AdminToken
}

// SlotLength is the time each token occupies in a doctor's queue.
func (c *AppConfig) SlotLength() time.Duration {
	return time.Duration(c.SlotMinutes) * time.Minute
}

// MailEnabled reports whether booking notices can be emailed.
func (c *AppConfig) MailEnabled() bool {
	return c.SMTPHost != ""
}
