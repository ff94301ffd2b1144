package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// FLASHDECK_DATABASE_URL for database.url.
const EnvPrefix = "FLASHDECK"

var validate = validator.New()

// Load reads configuration from defaults, an optional flashdeck.yaml and
// environment variables, in increasing order of precedence. It does not
// validate; use LoadServer or LoadClient for that.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("flashdeck")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "flashdeck"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadServer loads the configuration and validates the groups the API server
// needs.
func LoadServer() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := validateGroups(cfg.Server, cfg.Database, cfg.Auth, cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient loads the configuration and validates the groups the offline
// client needs.
func LoadClient() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := validateGroups(cfg.Client, cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateGroups(groups ...any) error {
	for _, g := range groups {
		if err := validate.Struct(g); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// setDefaults registers every key so that AutomaticEnv can populate it
// during Unmarshal, including keys whose default is empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60*24*7)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	dataDir := defaultDataDir()
	v.SetDefault("client.api_base_url", "http://localhost:8080")
	v.SetDefault("client.cache_path", filepath.Join(dataDir, "cache.db"))
	v.SetDefault("client.session_path", filepath.Join(os.TempDir(), "flashdeck-session.db"))
	v.SetDefault("client.request_timeout", 10*time.Second)
	v.SetDefault("client.probe_interval", 15*time.Second)
	v.SetDefault("client.sync_reset_delay", 3*time.Second)
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "flashdeck")
	}
	return ".flashdeck"
}
