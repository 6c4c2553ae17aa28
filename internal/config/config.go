package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr string
	GinMode  string

	DatabaseDriver string
	DatabaseURL    string
	DatabaseLog    bool

	JWTSecret string
	JWTIssuer string

	Location *time.Location

	AutoCheckoutSchedule    string
	AutoCheckoutCutoff      Clock
	BalanceBackfillSchedule string

	NotifyQueueSize  int
	TelegramBotToken string

	LogLevel logrus.Level
}

// Clock is a time of day, e.g. the auto check-out cutoff.
type Clock struct {
	Hour   int
	Minute int
}

// On returns the instant at c on the calendar day of t, in t's location.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses HH:MM.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

var instance *Config
var once sync.Once

// Get loads the configuration once from .env and the process environment.
func Get() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded, using process environment: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load builds a Config from the current environment without caching it.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		GinMode:                 getEnv("GIN_MODE", "release"),
		DatabaseDriver:          strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:             getEnv("DATABASE_URL", "attendance.db"),
		DatabaseLog:             getEnvAsBool("DATABASE_LOG", false),
		JWTSecret:               getEnv("AUTH_JWT_SECRET", ""),
		JWTIssuer:               getEnv("AUTH_JWT_ISSUER", ""),
		AutoCheckoutSchedule:    getEnv("AUTO_CHECKOUT_SCHEDULE", "0 23 * * *"),
		BalanceBackfillSchedule: getEnv("BALANCE_BACKFILL_SCHEDULE", "0 1 1 * *"),
		NotifyQueueSize:         int(getEnvAsInt("NOTIFY_QUEUE_SIZE", 256)),
		TelegramBotToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("could not get AUTH_JWT_SECRET")
	}

	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cutoff, err := ParseClock(getEnv("AUTO_CHECKOUT_CUTOFF", "18:00"))
	if err != nil {
		return nil, err
	}
	cfg.AutoCheckoutCutoff = cutoff

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = 256
	}

	return cfg, nil
}

// NewLogger builds the process logger.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(c.LogLevel)
	return logger
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}
