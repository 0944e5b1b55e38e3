package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{"FIREBASE_PROJECT_ID": "subminder"}))
	require.NoError(t, err)

	assert.Equal(t, StoreDriverFirestore, cfg.StoreDriver)
	assert.Equal(t, "Europe/Skopje", cfg.HomeTimeZone.String())
	assert.Equal(t, "0 8 * * *", cfg.CronSpecDailyReminder)
	assert.Equal(t, 9*time.Minute, cfg.RunTimeout)
	assert.Equal(t, 1, cfg.FanoutConcurrency)
	assert.Equal(t, SymbolModeFixed, cfg.CurrencySymbolMode)
	assert.Equal(t, "/favicon.ico", cfg.PushIcon)
	assert.False(t, cfg.DedupeReminders)
	assert.False(t, cfg.RunOnStart)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{
		"FIREBASE_PROJECT_ID":  "subminder",
		"STORE_DRIVER":         "Postgres",
		"DATABASE_URL":         "postgres://localhost/subminder",
		"HOME_TIME_ZONE":       "UTC",
		"RUN_TIMEOUT":          "30s",
		"RUN_ON_START":         "true",
		"DEDUPE_REMINDERS":     "1",
		"FANOUT_CONCURRENCY":   "8",
		"CURRENCY_SYMBOL_MODE": "subscription",
		"TELEGRAM_TOKEN":       "tok",
		"OPERATOR_TELEGRAM_ID": "42",
		"LOG_LEVEL":            "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, time.UTC, cfg.HomeTimeZone)
	assert.Equal(t, 30*time.Second, cfg.RunTimeout)
	assert.True(t, cfg.RunOnStart)
	assert.True(t, cfg.DedupeReminders)
	assert.Equal(t, 8, cfg.FanoutConcurrency)
	assert.Equal(t, SymbolModeSubscription, cfg.CurrencySymbolMode)
	assert.Equal(t, int64(42), cfg.OperatorTelegramID)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnv_Errors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"FIREBASE_PROJECT_ID": "subminder"}
	}
	cases := map[string]func(m map[string]string){
		"missing project":        func(m map[string]string) { delete(m, "FIREBASE_PROJECT_ID") },
		"postgres without url":   func(m map[string]string) { m["STORE_DRIVER"] = "postgres" },
		"unknown driver":         func(m map[string]string) { m["STORE_DRIVER"] = "mongo" },
		"bad zone":               func(m map[string]string) { m["HOME_TIME_ZONE"] = "Mars/Olympus" },
		"bad timeout":            func(m map[string]string) { m["RUN_TIMEOUT"] = "soon" },
		"bad concurrency":        func(m map[string]string) { m["FANOUT_CONCURRENCY"] = "0" },
		"bad symbol mode":        func(m map[string]string) { m["CURRENCY_SYMBOL_MODE"] = "emoji" },
		"bad bool":               func(m map[string]string) { m["DEDUPE_REMINDERS"] = "maybe" },
		"token without operator": func(m map[string]string) { m["TELEGRAM_TOKEN"] = "tok" },
		"bad operator id":        func(m map[string]string) { m["OPERATOR_TELEGRAM_ID"] = "abc" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := base()
			mutate(m)
			_, err := fromEnv(envOf(m))
			assert.Error(t, err)
		})
	}
}
