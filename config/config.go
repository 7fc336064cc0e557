package config

import (
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/socios/internal/email"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL    string `env:"DATABASE_URL,required" validate:"required"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret     string `env:"JWT_SECRET,required" validate:"required,min=32"`
	MagicLinkBase string `env:"MAGIC_LINK_BASE_URL" envDefault:"http://localhost:8080" validate:"url"`

	EmailProvider  string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=log smtp resend"`
	EmailFrom      string `env:"EMAIL_FROM"                validate:"required_unless=EmailProvider log"`
	EmailFromName  string `env:"EMAIL_FROM_NAME"`
	SMTPHost       string `env:"SMTP_HOST"                 validate:"required_if=EmailProvider smtp"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"587" validate:"min=1,max=65535"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	SMTPTLS        bool   `env:"SMTP_TLS" envDefault:"true"`
	SMTPSkipVerify bool   `env:"SMTP_SKIP_VERIFY"`
	ResendAPIKey   string `env:"RESEND_API_KEY"            validate:"required_if=EmailProvider resend"`
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

func (c *Config) Email() email.Config {
	return email.Config{
		Provider:       c.EmailProvider,
		From:           c.EmailFrom,
		FromName:       c.EmailFromName,
		SMTPHost:       c.SMTPHost,
		SMTPPort:       c.SMTPPort,
		SMTPUsername:   c.SMTPUsername,
		SMTPPassword:   c.SMTPPassword,
		SMTPTLS:        c.SMTPTLS,
		SMTPSkipVerify: c.SMTPSkipVerify,
		ResendAPIKey:   c.ResendAPIKey,
	}
}
