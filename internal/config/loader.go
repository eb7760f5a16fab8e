// Package config provides configuration management for the bet-signals service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "BET_SIGNALS"

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. The config file may be absent entirely, in which case defaults
// and environment variables drive everything.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bet-signals")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("source.kind", SourceKindSheet)
	v.SetDefault("source.poll_interval_seconds", 300)

	v.SetDefault("sheet.timeout_seconds", 30)
	v.SetDefault("sheet.max_retries", 3)
	v.SetDefault("sheet.rate_limit", 1.0)

	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.table", "filtered_matches")

	v.SetDefault("aggregation.stake_unit", 100.0)
	v.SetDefault("aggregation.window_days", 30)

	v.SetDefault("notifier.enabled", true)
	v.SetDefault("notifier.lookahead_minutes", 30)
	v.SetDefault("notifier.tick_seconds", 60)
	v.SetDefault("notifier.store", NotifiedStoreMemory)

	v.SetDefault("redis.ttl_hours", 24)

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.health_port", 8080)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
