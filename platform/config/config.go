// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// PushConfig provides settings for the Expo push client.
type PushConfig interface {
	GetExpoPushURL() string
	GetExpoAccessToken() string
	IsPushEnabled() bool
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	GetAdminEmails() []string
}

// MarketplaceConfig provides the lead marketplace rules shared between lead
// creation and the direct-lead expiry conversion.
type MarketplaceConfig interface {
	// GetMarketplaceMaxClaims is the claim cap applied to every indirect
	// (public marketplace) lead. The expiry conversion and guest lead
	// creation must both read this value, never a literal.
	GetMarketplaceMaxClaims() int
	GetDirectLeadWindow() time.Duration
	GetDirectLeadFirstReminderLead() time.Duration
	GetDirectLeadSecondReminderLead() time.Duration
}

// SchedulerConfig provides settings for the job runner and asynq worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetSchedulerLockTTL() time.Duration
	GetCronReminderNotifications() string
	GetCronPatternSync() string
	GetCronSeasonalReminders() string
	GetCronDirectLeadExpiry() string
	GetCronDirectLeadReminders() string
	GetCronLicenseExpiry() string
}

// Config is the concrete application configuration.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL     string
	JWTAccessSecret string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	AppBaseURL  string
	AdminEmails []string

	EmailEnabled     bool
	EmailProvider    string
	BrevoAPIKey      string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	PushEnabled     bool
	ExpoPushURL     string
	ExpoAccessToken string

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	SchedulerLockTTL time.Duration

	MarketplaceMaxClaims         int
	DirectLeadWindow             time.Duration
	DirectLeadFirstReminderLead  time.Duration
	DirectLeadSecondReminderLead time.Duration

	CronReminderNotifications string
	CronPatternSync           string
	CronSeasonalReminders     string
	CronDirectLeadExpiry      string
	CronDirectLeadReminders   string
	CronLicenseExpiry         string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool      { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string   { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string     { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string   { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// PushConfig implementation
func (c *Config) GetExpoPushURL() string     { return c.ExpoPushURL }
func (c *Config) GetExpoAccessToken() string { return c.ExpoAccessToken }
func (c *Config) IsPushEnabled() bool        { return c.PushEnabled }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string    { return c.AppBaseURL }
func (c *Config) GetAdminEmails() []string { return c.AdminEmails }

// MarketplaceConfig implementation
func (c *Config) GetMarketplaceMaxClaims() int { return c.MarketplaceMaxClaims }
func (c *Config) GetDirectLeadWindow() time.Duration { return c.DirectLeadWindow }
func (c *Config) GetDirectLeadFirstReminderLead() time.Duration {
	return c.DirectLeadFirstReminderLead
}
func (c *Config) GetDirectLeadSecondReminderLead() time.Duration {
	return c.DirectLeadSecondReminderLead
}

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                  { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool            { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string            { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int             { return c.AsynqConcurrency }
func (c *Config) GetSchedulerLockTTL() time.Duration   { return c.SchedulerLockTTL }
func (c *Config) GetCronReminderNotifications() string { return c.CronReminderNotifications }
func (c *Config) GetCronPatternSync() string           { return c.CronPatternSync }
func (c *Config) GetCronSeasonalReminders() string     { return c.CronSeasonalReminders }
func (c *Config) GetCronDirectLeadExpiry() string      { return c.CronDirectLeadExpiry }
func (c *Config) GetCronDirectLeadReminders() string   { return c.CronDirectLeadReminders }
func (c *Config) GetCronLicenseExpiry() string         { return c.CronLicenseExpiry }

// Load reads configuration from the environment (and .env when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailProvider := strings.ToLower(getEnv("EMAIL_PROVIDER", "brevo"))
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),
		AdminEmails: splitCSV(getEnv("ADMIN_EMAILS", "")),

		EmailEnabled:     emailEnabled,
		EmailProvider:    emailProvider,
		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Homezy"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		PushEnabled:     strings.EqualFold(getEnv("PUSH_ENABLED", "true"), "true"),
		ExpoPushURL:     getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		ExpoAccessToken: getEnv("EXPO_ACCESS_TOKEN", ""),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "homezy"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SchedulerLockTTL: mustDuration(getEnv("SCHEDULER_LOCK_TTL", "2m")),

		MarketplaceMaxClaims:         mustInt(getEnv("MARKETPLACE_MAX_CLAIMS", "3")),
		DirectLeadWindow:             mustDuration(getEnv("DIRECT_LEAD_WINDOW", "24h")),
		DirectLeadFirstReminderLead:  mustDuration(getEnv("DIRECT_LEAD_REMINDER1_LEAD", "12h")),
		DirectLeadSecondReminderLead: mustDuration(getEnv("DIRECT_LEAD_REMINDER2_LEAD", "1h")),

		CronReminderNotifications: getEnv("CRON_REMINDER_NOTIFICATIONS", "0 * * * *"),
		CronPatternSync:           getEnv("CRON_PATTERN_SYNC", "0 3 * * 0"),
		CronSeasonalReminders:     getEnv("CRON_SEASONAL_REMINDERS", "0 6 1 * *"),
		CronDirectLeadExpiry:      getEnv("CRON_DIRECT_LEAD_EXPIRY", "*/5 * * * *"),
		CronDirectLeadReminders:   getEnv("CRON_DIRECT_LEAD_REMINDERS", "*/15 * * * *"),
		CronLicenseExpiry:         getEnv("CRON_LICENSE_EXPIRY", "0 7 * * *"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled {
		switch cfg.EmailProvider {
		case "brevo":
			if cfg.BrevoAPIKey == "" {
				return nil, fmt.Errorf("BREVO_API_KEY is required when EMAIL_PROVIDER is brevo")
			}
		case "smtp":
			if cfg.SMTPHost == "" {
				return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
			}
		default:
			return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
		}
		if cfg.EmailFromAddress == "" {
			return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
		}
	}
	if cfg.MarketplaceMaxClaims < 1 {
		return nil, fmt.Errorf("MARKETPLACE_MAX_CLAIMS must be at least 1")
	}
	if cfg.DirectLeadWindow <= cfg.DirectLeadFirstReminderLead {
		return nil, fmt.Errorf("DIRECT_LEAD_WINDOW must exceed DIRECT_LEAD_REMINDER1_LEAD")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
