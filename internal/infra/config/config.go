package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL         string
	EntitlementAPIURL   string
	EntitlementAPIToken string
	AccountUUID         string
	CertDir             string
	TelegramToken       string // optional; empty disables the admin bot
	AdminTelegramID     int64  // required when TelegramToken is set
	LogLevel            string
	Environment         string
	CronSpecHeal        string // nightly healing cycle
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.EntitlementAPIURL = os.Getenv("ENTITLEMENT_API_URL")
	if cfg.EntitlementAPIURL == "" {
		return nil, fmt.Errorf("ENTITLEMENT_API_URL is not set")
	}
	cfg.EntitlementAPIToken = os.Getenv("ENTITLEMENT_API_TOKEN")

	cfg.AccountUUID = os.Getenv("ACCOUNT_UUID")
	if cfg.AccountUUID == "" {
		return nil, fmt.Errorf("ACCOUNT_UUID is not set")
	}

	cfg.CertDir = os.Getenv("CERT_DIR")
	if cfg.CertDir == "" {
		cfg.CertDir = "/var/lib/entitlement-healer/certs"
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
		if adminIDStr == "" {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set but TELEGRAM_TOKEN is")
		}
		adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = adminID
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecHeal = os.Getenv("CRON_SPEC_HEAL")
	if cfg.CronSpecHeal == "" {
		cfg.CronSpecHeal = "0 3 * * *" // Default: 3:00 AM nightly
	}

	return cfg, nil
}
