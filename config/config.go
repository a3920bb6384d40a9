package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret string `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTLMin int    `env:"JWT_TTL_MIN" envDefault:"1440" validate:"min=1"`

	// Confirmation codes
	CodeStore              string `env:"CODE_STORE" envDefault:"memory" validate:"required,oneof=memory redis postgres"`
	RedisURL               string `env:"REDIS_URL" validate:"required_if=CodeStore redis"`
	CodeLength             int    `env:"CODE_LENGTH" envDefault:"6" validate:"min=4,max=10"`
	CodeTTLSec             int    `env:"CODE_TTL_SEC" envDefault:"300" validate:"min=30,max=3600"`
	CodeReissueIntervalSec int    `env:"CODE_REISSUE_INTERVAL_SEC" envDefault:"60" validate:"min=0,max=3600"`
	CodeSweepSchedule      string `env:"CODE_SWEEP_SCHEDULE" envDefault:"@every 5m" validate:"required"`
	CodeSweepInProcess     bool   `env:"CODE_SWEEP_IN_PROCESS" envDefault:"true"`

	// Email
	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=log resend smtp"`
	EmailFrom     string `env:"EMAIL_FROM" validate:"required_unless=EmailProvider log"`
	ResendAPIKey  string `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`
	SMTPHost      string `env:"SMTP_HOST" validate:"required_if=EmailProvider smtp"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587" validate:"min=1,max=65535"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPTLS       bool   `env:"SMTP_TLS" envDefault:"true"`

	// Verification attempts per email: a burst, then one more per interval.
	CodeVerifyBurst       int `env:"CODE_VERIFY_BURST" envDefault:"5" validate:"min=1,max=100"`
	CodeVerifyIntervalSec int `env:"CODE_VERIFY_INTERVAL_SEC" envDefault:"60" validate:"min=1,max=3600"`

	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"1" validate:"gt=0"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"5" validate:"min=1"`

	// Proxies whose X-Forwarded-For is believed. Empty means the socket peer is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Env != "local" && cfg.EmailProvider == "log" {
		return nil, fmt.Errorf("invalid config: EMAIL_PROVIDER=log is only allowed with ENV=local")
	}

	if cfg.Env != "local" && cfg.CodeStore == "memory" {
		return nil, fmt.Errorf("invalid config: CODE_STORE=memory is only allowed with ENV=local")
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.CodeTTLSec) * time.Second
}

func (c *Config) CodeReissueInterval() time.Duration {
	return time.Duration(c.CodeReissueIntervalSec) * time.Second
}

func (c *Config) CodeVerifyInterval() time.Duration {
	return time.Duration(c.CodeVerifyIntervalSec) * time.Second
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMin) * time.Minute
}
