/*
Package config loads the server configuration from a YAML file.

PURPOSE:
  Central configuration for the leave ledger server: HTTP port, database
  location, and scheduler behavior. Every field has a default so the
  server runs with no config file at all.

FILE FORMAT (YAML):
  server:
    port: 8080
  database:
    path: leave.db
  scheduler:
    enabled: true
    check_interval_minutes: 60
*/
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	// Path is the SQLite database file; ":memory:" for in-memory.
	Path string `mapstructure:"path"`
}

type SchedulerConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	CheckIntervalMinutes int  `mapstructure:"check_interval_minutes"`
}

// Load reads the config file at path. A missing file is not an error:
// defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "leave.db")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.check_interval_minutes", 60)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}
