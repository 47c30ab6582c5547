package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ErrMissingToken is returned by Load when TELEGRAM_BOT_TOKEN is empty.
// The process must not start its event loop without it.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config holds all configuration for the bot process.
type Config struct {
	ServiceName string
	BotToken    string
	AdminIDs    []int64

	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	NATSURL string

	SMTP        SMTPConfig
	AdminEmails []string

	MetricsPort            string
	OTExporterOTLPEndpoint string

	Lifecycle LifecycleConfig

	DailyListingLimit int
	DispatchWorkers   int
}

// SMTPConfig configures optional e-mail alerts for administrators.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0 && c.SenderEmail != ""
}

// LifecycleConfig groups the listing expiry and relevance timings.
type LifecycleConfig struct {
	ListingTTL             time.Duration
	RenewalCooldown        time.Duration
	ExpiryWarningWindow    time.Duration
	ExpiryCheckInterval    time.Duration
	RelevanceCheckInterval time.Duration
	RelevanceMaxAge        time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "brainrot-bot")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("ADMIN_IDS", "")
	v.SetDefault("DATABASE_URL", "sqlite://brainrot_shop.db")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("METRICS_PORT", "9094")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("LISTING_TTL", "72h")
	v.SetDefault("RENEWAL_COOLDOWN", "72h")
	v.SetDefault("EXPIRY_WARNING_WINDOW", "6h")
	v.SetDefault("EXPIRY_CHECK_INTERVAL", "1h")
	v.SetDefault("RELEVANCE_CHECK_INTERVAL", "6h")
	v.SetDefault("RELEVANCE_MAX_AGE", "72h")
	v.SetDefault("DAILY_LISTING_LIMIT", 6)
	v.SetDefault("DISPATCH_WORKERS", 8)
}

// LoadConfig reads configuration from environment variables. The .env
// file, if any, is loaded by main before this is called.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v, appLogger)
}

func fromViper(v *viper.Viper, appLogger *logger.Logger) (*Config, error) {
	adminIDs, err := parseIDList(v.GetString("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	cfg := &Config{
		ServiceName:   v.GetString("SERVICE_NAME"),
		BotToken:      strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		AdminIDs:      adminIDs,
		DatabaseURL:   v.GetString("DATABASE_URL"),
		RedisAddress:  v.GetString("REDIS_ADDRESS"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		NATSURL:       v.GetString("NATS_URL"),
		SMTP: SMTPConfig{
			Host:        v.GetString("SMTP_HOST"),
			Port:        v.GetInt("SMTP_PORT"),
			Username:    v.GetString("SMTP_USERNAME"),
			Password:    v.GetString("SMTP_PASSWORD"),
			SenderEmail: v.GetString("SMTP_SENDER_EMAIL"),
		},
		AdminEmails:            splitList(v.GetString("ADMIN_EMAILS")),
		MetricsPort:            v.GetString("METRICS_PORT"),
		OTExporterOTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Lifecycle: LifecycleConfig{
			ListingTTL:             v.GetDuration("LISTING_TTL"),
			RenewalCooldown:        v.GetDuration("RENEWAL_COOLDOWN"),
			ExpiryWarningWindow:    v.GetDuration("EXPIRY_WARNING_WINDOW"),
			ExpiryCheckInterval:    v.GetDuration("EXPIRY_CHECK_INTERVAL"),
			RelevanceCheckInterval: v.GetDuration("RELEVANCE_CHECK_INTERVAL"),
			RelevanceMaxAge:        v.GetDuration("RELEVANCE_MAX_AGE"),
		},
		DailyListingLimit: v.GetInt("DAILY_LISTING_LIMIT"),
		DispatchWorkers:   v.GetInt("DISPATCH_WORKERS"),
	}

	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.DailyListingLimit <= 0 {
		return nil, fmt.Errorf("DAILY_LISTING_LIMIT must be positive, got %d", cfg.DailyListingLimit)
	}
	if cfg.Lifecycle.ListingTTL <= 0 || cfg.Lifecycle.ExpiryCheckInterval <= 0 || cfg.Lifecycle.RelevanceCheckInterval <= 0 {
		return nil, errors.New("LISTING_TTL, EXPIRY_CHECK_INTERVAL and RELEVANCE_CHECK_INTERVAL must be positive")
	}
	if cfg.DispatchWorkers <= 0 {
		cfg.DispatchWorkers = 1
	}
	if len(cfg.AdminIDs) == 0 {
		appLogger.Warn("ADMIN_IDS is empty; admin commands and moderation are unavailable")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.Int("admin_count", len(cfg.AdminIDs)),
		zap.Bool("redis_enabled", cfg.RedisAddress != ""),
		zap.Bool("nats_enabled", cfg.NATSURL != ""),
		zap.Bool("smtp_enabled", cfg.SMTP.Enabled()),
		zap.String("metrics_port", cfg.MetricsPort),
		zap.Duration("listing_ttl", cfg.Lifecycle.ListingTTL),
		zap.Int("daily_listing_limit", cfg.DailyListingLimit),
	)
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
