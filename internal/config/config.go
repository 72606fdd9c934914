// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an
// error.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the tracker.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8082"`
	DatabaseURL  string        `env:"DATABASE_URL,required"`
	RedisURL     string        `env:"REDIS_URL,required"`
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	ReminderSpec string        `env:"REMINDER_CRON" envDefault:"@every 1m"`
}

// Load parses the environment into a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	return cfg, nil
}
