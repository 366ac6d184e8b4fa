package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	// TokenSecret keys the HMAC over every verification and magic-link
	// token. A missing or short secret is a startup error, never a
	// per-request fallback.
	TokenSecret string `env:"TOKEN_SECRET,required" validate:"required,min=32"`
	JWTSecret   string `env:"JWT_SECRET,required"   validate:"required,min=32"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    envDefault:"Ease Up <noreply@ease-up.app>"`

	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080" validate:"url"`

	// Rate-limit ceilings, aligned with the hosted auth provider's
	// published limits so we never reject traffic the provider would accept.
	EmailSendWindow      time.Duration `env:"EMAIL_SEND_WINDOW"       envDefault:"1h"`
	EmailSendMax         int           `env:"EMAIL_SEND_MAX"          envDefault:"32767" validate:"min=1"`
	VerificationWindow   time.Duration `env:"VERIFICATION_WINDOW"     envDefault:"5m"`
	VerificationMax      int           `env:"VERIFICATION_MAX"        envDefault:"10000" validate:"min=1"`
	MagicLinkWindow      time.Duration `env:"MAGIC_LINK_WINDOW"       envDefault:"5m"`
	MagicLinkMax         int           `env:"MAGIC_LINK_MAX"          envDefault:"10000" validate:"min=1"`
	GlobalWindow         time.Duration `env:"GLOBAL_WINDOW"           envDefault:"5m"`
	GlobalMax            int           `env:"GLOBAL_MAX"              envDefault:"32767" validate:"min=1"`
	RateLimitBurst       bool          `env:"RATE_LIMIT_BURST"        envDefault:"true"`
	RateLimitBurstWindow time.Duration `env:"RATE_LIMIT_BURST_WINDOW" envDefault:"1s"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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
