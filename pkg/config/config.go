// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"time"

	"github.com/arachnolog/broodkeeper/internal/notify"
	"github.com/arachnolog/broodkeeper/pkg/logger"
	"github.com/arachnolog/broodkeeper/pkg/redis"
)

// Config holds runtime configuration for the bot.
type Config struct {
	AppEnv   string         `mapstructure:"-"`
	Bot      BotConfig      `mapstructure:"bot" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    redis.Config   `mapstructure:"redis"`
	Logger   logger.Config  `mapstructure:"logger"`
	Notify   notify.Config  `mapstructure:"notify"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// BotConfig configures the Telegram transport.
type BotConfig struct {
	Token       string        `mapstructure:"token" validate:"required"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	// Offline skips the initial getMe call. Used by tests.
	Offline bool `mapstructure:"offline"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		sslMode,
	)
}

// JobsConfig configures the background maintenance jobs.
type JobsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RetentionDays int    `mapstructure:"retention_days"`
	PurgeCron     string `mapstructure:"purge_cron"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}
