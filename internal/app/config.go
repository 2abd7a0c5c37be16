// Package app assembles the bot: configuration, infrastructure, services
// and handlers, and exposes the run options for the Telegram runtime.
package app

import (
	"fmt"
	"time"

	coreconfig "github.com/m3rciful/pickupbot/core/config"
	coredatabase "github.com/m3rciful/pickupbot/core/database"
)

// BotConfig carries bot-specific settings outside the reusable core.
type BotConfig struct {
	// Timezone is the operational timezone used for pickup cutoffs and
	// every timestamp shown to users and admins.
	Timezone string `yaml:"timezone" envconfig:"BOT_TIMEZONE"`
}

// CleanupConfig schedules the daily sweep of completed orders.
type CleanupConfig struct {
	Hour   int `yaml:"hour" envconfig:"CLEANUP_HOUR"`
	Minute int `yaml:"minute" envconfig:"CLEANUP_MINUTE"`
}

// Config is the full application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
	Cleanup  CleanupConfig       `yaml:"cleanup"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Location resolves the operational timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Bot.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Bot.Timezone)
}

// Load reads the YAML configuration with environment overrides and
// validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid bot.timezone %q: %w", cfg.Bot.Timezone, err)
	}
	if cfg.Cleanup.Hour < 0 || cfg.Cleanup.Hour > 23 {
		return nil, fmt.Errorf("cleanup.hour must be within 0..23")
	}
	if cfg.Cleanup.Minute < 0 || cfg.Cleanup.Minute > 59 {
		return nil, fmt.Errorf("cleanup.minute must be within 0..59")
	}
	return &cfg, nil
}
