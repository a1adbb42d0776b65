// Package config loads the process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Discord
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// Storage
	DBPath string `env:"DB_PATH" envDefault:"data/splitbot.db"`

	// Reminders
	PollInterval     time.Duration `env:"POLL_INTERVAL" envDefault:"1h"`
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"24h"`

	// HTTP (health and metrics)
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
