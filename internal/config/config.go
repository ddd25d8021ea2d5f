package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth" validate:"required"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler" validate:"required"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeout bounds graceful HTTP shutdown and waiting for in-flight job runs.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,min=1s"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// SchedulerConfig controls the periodic reminder jobs.
type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Interval between two triggers of the same job.
	Interval time.Duration `mapstructure:"interval" validate:"required,min=1s"`
	// MisfireGrace is how late a queued trigger may start before it is dropped.
	MisfireGrace time.Duration `mapstructure:"misfire_grace" validate:"required,min=1s"`
	// Timezone of the cron clock. Eligibility checks always compare UTC days.
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// Notification sink kinds.
const (
	SinkLog  = "log"
	SinkSMTP = "smtp"
)

// NotificationConfig controls reminder policy and delivery.
type NotificationConfig struct {
	// ResetWindow is the minimum quiet time before a notified task is re-armed.
	ResetWindow time.Duration `mapstructure:"reset_window" validate:"required,min=1s"`
	Sink        string        `mapstructure:"sink" validate:"required,oneof=log smtp"`
	// LogPath is the file appended to by the log sink.
	LogPath string `mapstructure:"log_path"`
	// RatePerSecond caps sends across all users; 0 disables limiting.
	RatePerSecond float64 `mapstructure:"rate_per_sec" validate:"gte=0"`
	// SendTimeout bounds a single send.
	SendTimeout time.Duration `mapstructure:"send_timeout" validate:"required,min=1s"`
	// SMTP is only validated when Sink is "smtp".
	SMTP SMTPConfig `mapstructure:"smtp" validate:"-"`
}

// SMTPConfig holds the settings of the SMTP sink.
type SMTPConfig struct {
	Host     string `mapstructure:"host" validate:"required,hostname|ip"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required,email"`
}
