package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	BotToken    string        `envconfig:"BOT_TOKEN"`
	AdminID     int64         `envconfig:"ADMIN_ID"`
	PollTimeout time.Duration `envconfig:"POLL_TIMEOUT" default:"10s"`
	RedisURL    string        `envconfig:"REDIS_URL"`

	Database DatabaseConfig
	Log      LogConfig
	Limits   LimitsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	Path     string `envconfig:"DB_PATH" default:"bot.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"anonbot"`
	User     string `envconfig:"DB_USER" default:"anonbot"`
	Password string `envconfig:"DB_PASSWORD"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// LimitsConfig holds timeouts and the defaults for runtime settings
type LimitsConfig struct {
	AnswerSessionTTL   time.Duration `envconfig:"ANSWER_SESSION_TTL" default:"30m"`
	StateIdleAfter     time.Duration `envconfig:"STATE_IDLE_AFTER" default:"24h"`
	RateLimitIdleAfter time.Duration `envconfig:"RATE_LIMIT_IDLE_AFTER" default:"1h"`
	CallbackInterval   time.Duration `envconfig:"CALLBACK_INTERVAL" default:"1s"`

	QuestionsPerHour  int `envconfig:"DEFAULT_QUESTIONS_PER_HOUR" default:"5"`
	CooldownSeconds   int `envconfig:"DEFAULT_COOLDOWN_SECONDS" default:"30"`
	MinQuestionLength int `envconfig:"DEFAULT_MIN_QUESTION_LENGTH" default:"5"`
	MaxQuestionLength int `envconfig:"DEFAULT_MAX_QUESTION_LENGTH" default:"2000"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and normalizes the driver name
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.AdminID == 0 {
		return fmt.Errorf("ADMIN_ID is required")
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for postgres")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q; allowed: sqlite, postgres", c.Database.Driver)
	}

	if c.Limits.AnswerSessionTTL <= 0 {
		return fmt.Errorf("ANSWER_SESSION_TTL must be > 0")
	}
	if c.Limits.CallbackInterval < 0 {
		return fmt.Errorf("CALLBACK_INTERVAL must be >= 0")
	}
	if c.Limits.QuestionsPerHour < 1 {
		return fmt.Errorf("DEFAULT_QUESTIONS_PER_HOUR must be >= 1")
	}
	if c.Limits.MinQuestionLength < 1 || c.Limits.MinQuestionLength > c.Limits.MaxQuestionLength {
		return fmt.Errorf("DEFAULT_MIN_QUESTION_LENGTH must be between 1 and DEFAULT_MAX_QUESTION_LENGTH")
	}
	return nil
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", c.Database.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
