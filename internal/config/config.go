package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Quiz     QuizConfig     `mapstructure:"quiz" validate:"required"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
// For the sqlite driver URL is a file path.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// QuizConfig controls task lifetime and the links handed to clients.
type QuizConfig struct {
	TaskTTLSeconds int    `mapstructure:"task_ttl_seconds" validate:"gte=1"`
	LinkScheme     string `mapstructure:"link_scheme" validate:"required,oneof=http https"`
	PathPrefix     string `mapstructure:"path_prefix" validate:"omitempty,excludesall=/?#"`
	FinalLink      string `mapstructure:"final_link" validate:"required,url"`
}

// TaskTTL returns the task lifetime as a duration.
func (c QuizConfig) TaskTTL() time.Duration {
	return time.Duration(c.TaskTTLSeconds) * time.Second
}

// SweeperConfig controls the background removal of expired tasks.
type SweeperConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
