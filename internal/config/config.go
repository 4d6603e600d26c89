// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// SchedulerConfig contains the settings for reaching the external
// scheduling engine.
type SchedulerConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// RequestTimeout bounds each scheduler call. The session controller
	// imposes no timeouts of its own.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
}
