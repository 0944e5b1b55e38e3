package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata" // HOME_TIME_ZONE must resolve on minimal images

	"github.com/joho/godotenv"
)

const (
	StoreDriverFirestore = "firestore"
	StoreDriverPostgres  = "postgres"

	SymbolModeFixed        = "fixed"
	SymbolModeSubscription = "subscription"
)

// AppConfig holds all configuration for the reminder job
type AppConfig struct {
	StoreDriver string

	FirebaseProjectID                string
	GoogleApplicationCredentials     string
	FirebaseServiceAccountJSONBase64 string
	DatabaseURL                      string

	HomeTimeZone          *time.Location
	CronSpecDailyReminder string // Evaluated in HomeTimeZone
	RunTimeout            time.Duration
	RunOnStart            bool

	FanoutConcurrency  int
	CurrencySymbolMode string
	DedupeReminders    bool
	PushIcon           string

	TelegramToken      string // Optional operator channel
	OperatorTelegramID int64

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.StoreDriver = strings.ToLower(getenv("STORE_DRIVER"))
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverFirestore
	}

	cfg.FirebaseProjectID = getenv("FIREBASE_PROJECT_ID")
	if cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is not set")
	}
	cfg.GoogleApplicationCredentials = getenv("GOOGLE_APPLICATION_CREDENTIALS")
	cfg.FirebaseServiceAccountJSONBase64 = getenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")

	switch cfg.StoreDriver {
	case StoreDriverFirestore:
	case StoreDriverPostgres:
		cfg.DatabaseURL = getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}

	zoneName := getenv("HOME_TIME_ZONE")
	if zoneName == "" {
		zoneName = "Europe/Skopje"
	}
	cfg.HomeTimeZone, err = time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_TIME_ZONE: %w", err)
	}

	cfg.CronSpecDailyReminder = getenv("CRON_SPEC_DAILY_REMINDER")
	if cfg.CronSpecDailyReminder == "" {
		cfg.CronSpecDailyReminder = "0 8 * * *" // Default: 08:00 daily
	}

	cfg.RunTimeout = 9 * time.Minute
	if v := getenv("RUN_TIMEOUT"); v != "" {
		cfg.RunTimeout, err = time.ParseDuration(v)
		if err != nil || cfg.RunTimeout <= 0 {
			return nil, fmt.Errorf("invalid RUN_TIMEOUT %q", v)
		}
	}

	if cfg.RunOnStart, err = parseBool(getenv, "RUN_ON_START"); err != nil {
		return nil, err
	}
	if cfg.DedupeReminders, err = parseBool(getenv, "DEDUPE_REMINDERS"); err != nil {
		return nil, err
	}

	cfg.FanoutConcurrency = 1
	if v := getenv("FANOUT_CONCURRENCY"); v != "" {
		cfg.FanoutConcurrency, err = strconv.Atoi(v)
		if err != nil || cfg.FanoutConcurrency < 1 {
			return nil, fmt.Errorf("invalid FANOUT_CONCURRENCY %q", v)
		}
	}

	cfg.CurrencySymbolMode = strings.ToLower(getenv("CURRENCY_SYMBOL_MODE"))
	switch cfg.CurrencySymbolMode {
	case "":
		cfg.CurrencySymbolMode = SymbolModeFixed
	case SymbolModeFixed, SymbolModeSubscription:
	default:
		return nil, fmt.Errorf("invalid CURRENCY_SYMBOL_MODE %q", cfg.CurrencySymbolMode)
	}

	cfg.PushIcon = getenv("PUSH_ICON")
	if cfg.PushIcon == "" {
		cfg.PushIcon = "/favicon.ico"
	}

	cfg.TelegramToken = getenv("TELEGRAM_TOKEN")
	if operatorIDStr := getenv("OPERATOR_TELEGRAM_ID"); operatorIDStr != "" {
		cfg.OperatorTelegramID, err = strconv.ParseInt(operatorIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OPERATOR_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.OperatorTelegramID == 0 {
		return nil, fmt.Errorf("OPERATOR_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func parseBool(getenv func(string) string, key string) (bool, error) {
	v := getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
