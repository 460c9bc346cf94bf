// Package config loads the backend configuration from environment
// variables. envconfig maps the variables onto the struct fields; a .env
// file is honored in development (loaded by main before Load runs).
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ALL settings of the application.
type Config struct {
	// --- HTTP server ---
	HTTPHost            string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort            int           `envconfig:"HTTP_PORT" default:"8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	// Comma-separated list of allowed CORS origins. "*" allows everything,
	// which is fine because auth is bearer-token based, not cookie based.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// --- Database ---
	// Inside Docker "localhost" is almost always wrong. The default is
	// "postgres" (the docker-compose service name); override DB_HOST for
	// local runs.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"osidate"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"osidate"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Asia/Tokyo"`

	// --- Login bonus ---
	// How many times a save is retried when the status row was updated
	// concurrently (two app launches racing on the same account).
	LoginSaveRetries int `envconfig:"LOGIN_SAVE_RETRIES" default:"3"`
	// History page size cap for the bonus history endpoint.
	BonusHistoryMaxLimit int `envconfig:"BONUS_HISTORY_MAX_LIMIT" default:"100"`

	// --- Reminders ---
	// Users with a streak of at least this length get an evening push
	// when they have not logged in yet that day.
	ReminderStreakThreshold int `envconfig:"REMINDER_STREAK_THRESHOLD" default:"3"`
	// Cron spec for the reminder job, interpreted in APP_TIMEZONE.
	ReminderCronSpec string `envconfig:"REMINDER_CRON_SPEC" default:"0 20 * * *"`
	// Path to the Firebase service account key for FCM. Reminders are
	// disabled when empty and FCM_SERVICE_ACCOUNT_JSON is unset.
	FCMCredentialsFile string `envconfig:"FCM_CREDENTIALS_FILE" default:""`

	// --- Admin ---
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
	AdminSessionTTL   time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"12h"`

	// --- Rate limiting ---
	RateLimitPerSecond float64 `envconfig:"RATE_LIMIT_PER_SECOND" default:"5"`
	RateLimitBurst     int     `envconfig:"RATE_LIMIT_BURST" default:"30"`
}

// DatabaseDSN returns the PostgreSQL connection string in DSN form.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// Validate checks settings that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.LoginSaveRetries < 1 {
		return fmt.Errorf("LOGIN_SAVE_RETRIES must be >= 1")
	}
	if c.ReminderStreakThreshold < 1 {
		return fmt.Errorf("REMINDER_STREAK_THRESHOLD must be >= 1")
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("invalid rate limit settings")
	}
	return nil
}

// Load reads the environment and fills in the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
