package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	JWTSecret   string `env:"JWT_SECRET,required" validate:"required,min=32"`
	FrontEndURL string `env:"FRONT_END_URL" envDefault:"http://localhost:4200" validate:"required,url"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required" validate:"required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required" validate:"required"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL,required" validate:"required,url"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	JenkinsBaseURL  string `env:"JENKINS_BASE_URL" envDefault:"http://localhost:8081"`
	JenkinsUser     string `env:"JENKINS_USER"`
	JenkinsAPIToken string `env:"JENKINS_API_TOKEN"`
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
