package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Rate     RateLimitConfig
	Reminder ReminderConfig
	Email    EmailConfig
	SMS      SMSConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	DefaultTimezone string
}

type DatabaseConfig struct {
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	MaxConns   int32
	Migrations bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// SessionTTL bounds how long a validated session stays cached.
	SessionTTL time.Duration
}

type BookingConfig struct {
	LeadTime     time.Duration
	MaxDaysAhead int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type ReminderConfig struct {
	Schedule string
}

type EmailConfig struct {
	SendGridAPIKey string
	From           string
	FromName       string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "careops")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DEFAULT_TIMEZONE", "UTC")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATIONS", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_CACHE_TTL_SECONDS", 300)
	v.SetDefault("BOOKING_LEAD_TIME_MINUTES", 0)
	v.SetDefault("BOOKING_MAX_DAYS_AHEAD", 90)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("REMINDER_SCHEDULE", "@every 15m")
	v.SetDefault("EMAIL_FROM_NAME", "CareOps")

	// The .env file is optional; deployments usually pass plain env vars.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			DefaultTimezone: v.GetString("DEFAULT_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASS"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			Migrations: v.GetBool("DB_MIGRATIONS"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			SessionTTL: time.Duration(v.GetInt("SESSION_CACHE_TTL_SECONDS")) * time.Second,
		},
		Booking: BookingConfig{
			LeadTime:     time.Duration(v.GetInt("BOOKING_LEAD_TIME_MINUTES")) * time.Minute,
			MaxDaysAhead: v.GetInt("BOOKING_MAX_DAYS_AHEAD"),
		},
		Rate: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Reminder: ReminderConfig{
			Schedule: v.GetString("REMINDER_SCHEDULE"),
		},
		Email: EmailConfig{
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			From:           v.GetString("EMAIL_FROM"),
			FromName:       v.GetString("EMAIL_FROM_NAME"),
		},
		SMS: SMSConfig{
			AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: v.GetString("TWILIO_FROM_NUMBER"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.App.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.App.Port)
	}
	if _, err := time.LoadLocation(c.App.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.App.DefaultTimezone, err)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.Database.MaxConns)
	}
	if c.Booking.LeadTime < 0 {
		return errors.New("BOOKING_LEAD_TIME_MINUTES must not be negative")
	}
	if c.Booking.MaxDaysAhead < 1 {
		return fmt.Errorf("BOOKING_MAX_DAYS_AHEAD must be positive, got %d", c.Booking.MaxDaysAhead)
	}
	if c.Rate.RPS <= 0 || c.Rate.Burst < 1 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// isMissingFile reports a .env that does not exist. viper surfaces the
// os error directly when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
