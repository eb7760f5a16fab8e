// Package config provides configuration management for the bet-signals service.
package config

import (
	"fmt"
	"time"
)

// Source kinds
const (
	SourceKindSheet    = "sheet"
	SourceKindPostgres = "postgres"
)

// Notified-store kinds
const (
	NotifiedStoreMemory = "memory"
	NotifiedStoreRedis  = "redis"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Source      SourceConfig      `mapstructure:"source" validate:"required"`
	Sheet       SheetConfig       `mapstructure:"sheet"`
	Database    DatabaseConfig    `mapstructure:"database"`
	ChangeFeed  ChangeFeedConfig  `mapstructure:"change_feed"`
	Aggregation AggregationConfig `mapstructure:"aggregation" validate:"required"`
	Notifier    NotifierConfig    `mapstructure:"notifier" validate:"required"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SourceConfig selects and paces the row source backend
type SourceConfig struct {
	Kind                string `mapstructure:"kind" validate:"required,sourcekind"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds" validate:"required,gte=5"`
}

// SheetConfig configures the published-CSV row source
type SheetConfig struct {
	URL            string  `mapstructure:"url" validate:"omitempty,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	Table          string `mapstructure:"table"`
}

// ChangeFeedConfig configures push-based refresh from store change events
type ChangeFeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"omitempty,uri"`
}

// AggregationConfig tunes the profitability simulation
type AggregationConfig struct {
	StakeUnit  float64 `mapstructure:"stake_unit" validate:"required,gt=0"`
	WindowDays int     `mapstructure:"window_days" validate:"required,gt=0"`
}

// NotifierConfig controls the upcoming-match alert watcher
type NotifierConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	LookaheadMinutes int    `mapstructure:"lookahead_minutes" validate:"required,gt=0"`
	TickSeconds      int    `mapstructure:"tick_seconds" validate:"required,gt=0"`
	Store            string `mapstructure:"store" validate:"required,oneof=memory redis"`
}

// TelegramConfig configures the Telegram alert sink
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
}

// RedisConfig configures the Redis-backed notified store
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	TTLHours int    `mapstructure:"ttl_hours" validate:"omitempty,gt=0"`
}

// ServerConfig represents the JSON API server configuration
type ServerConfig struct {
	Port       int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort int `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// PollInterval returns the refresh polling interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Source.PollIntervalSeconds) * time.Second
}

// Lookahead returns the notification lookahead window as a duration
func (c *Config) Lookahead() time.Duration {
	return time.Duration(c.Notifier.LookaheadMinutes) * time.Minute
}

// NotifierTick returns the watcher evaluation period as a duration
func (c *Config) NotifierTick() time.Duration {
	return time.Duration(c.Notifier.TickSeconds) * time.Second
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
