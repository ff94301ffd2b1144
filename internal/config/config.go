package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains the Postgres connection settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
}

// AuthConfig contains token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// LogConfig controls the structured logger. An empty File logs to stdout.
type LogConfig struct {
	Level      string `mapstructure:"level"        validate:"required,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
}

// ClientConfig contains the offline client settings.
type ClientConfig struct {
	APIBaseURL     string        `mapstructure:"api_base_url"     validate:"required,url"`
	CachePath      string        `mapstructure:"cache_path"       validate:"required"`
	SessionPath    string        `mapstructure:"session_path"     validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"  validate:"gt=0"`
	ProbeInterval  time.Duration `mapstructure:"probe_interval"   validate:"gt=0"`
	SyncResetDelay time.Duration `mapstructure:"sync_reset_delay" validate:"gt=0"`
}
