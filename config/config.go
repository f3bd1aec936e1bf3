/*
Package config loads runtime configuration from the environment.

VARIABLES:
  LEAVE_PORT             HTTP port (default 8080)
  LEAVE_DB_DRIVER        sqlite | postgres | memory (default sqlite)
  LEAVE_DB_DSN           database path/DSN (default leave.db)
  LEAVE_PASSPHRASE_HASH  bcrypt hash of the shared passphrase (required)
  LEAVE_REMINDER_HOUR    local hour for the daily reminder (default 8)
  LINE_TOKEN             LINE channel access token (optional)
  LINE_GROUP_ID          LINE destination group id (optional)

When the LINE variables are absent the server falls back to the log-only
sender; everything else still works.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	Driver         string
	DSN            string
	PassphraseHash string
	ReminderHour   int
	LineToken      string
	LineGroupID    string
}

func Load() (Config, error) {
	cfg := Config{
		Port:           getenv("LEAVE_PORT", "8080"),
		Driver:         getenv("LEAVE_DB_DRIVER", "sqlite"),
		DSN:            getenv("LEAVE_DB_DSN", "leave.db"),
		PassphraseHash: os.Getenv("LEAVE_PASSPHRASE_HASH"),
		LineToken:      os.Getenv("LINE_TOKEN"),
		LineGroupID:    os.Getenv("LINE_GROUP_ID"),
	}

	if cfg.PassphraseHash == "" {
		return Config{}, fmt.Errorf("LEAVE_PASSPHRASE_HASH required")
	}

	switch cfg.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return Config{}, fmt.Errorf("unsupported LEAVE_DB_DRIVER %q", cfg.Driver)
	}

	hour, err := strconv.Atoi(getenv("LEAVE_REMINDER_HOUR", "8"))
	if err != nil || hour < 0 || hour > 23 {
		return Config{}, fmt.Errorf("LEAVE_REMINDER_HOUR must be an hour 0-23")
	}
	cfg.ReminderHour = hour

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
