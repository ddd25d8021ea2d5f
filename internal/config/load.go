package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TODO_DATABASE_URL.
const EnvPrefix = "TODO"

// Load reads configuration from defaults, an optional YAML file and
// TODO_-prefixed environment variables, in increasing order of precedence.
// An empty configPath searches for config.yaml in the working directory.
// Returns a populated Config or an error if loading or validation fails.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
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

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"notification.smtp.password",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("scheduler.misfire_grace", "60s")
	v.SetDefault("scheduler.timezone", "UTC")

	v.SetDefault("notification.reset_window", "60s")
	v.SetDefault("notification.sink", SinkLog)
	v.SetDefault("notification.log_path", "log.txt")
	v.SetDefault("notification.rate_per_sec", 0)
	v.SetDefault("notification.send_timeout", "30s")
	v.SetDefault("notification.smtp.host", "")
	v.SetDefault("notification.smtp.port", 587)
	v.SetDefault("notification.smtp.username", "")
	v.SetDefault("notification.smtp.from", "")
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("configuration validation failed: scheduler.timezone: %w", err)
	}

	switch c.Notification.Sink {
	case SinkLog:
		if c.Notification.LogPath == "" {
			return fmt.Errorf("configuration validation failed: notification.log_path is required for the log sink")
		}
	case SinkSMTP:
		if err := validate.Struct(c.Notification.SMTP); err != nil {
			return fmt.Errorf("configuration validation failed: notification.smtp: %w", err)
		}
	}

	return nil
}
