package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the companion service configuration. Values come from the
// environment, optionally seeded from a .env file next to the plugin.
type Config struct {
	Env           string `validate:"oneof=dev prod"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	Port          uint16 `validate:"required"`
	HistoryDBPath string `validate:"required"`

	// ProbeTimeout bounds one round trip to a candidate CatDV server.
	ProbeTimeout time.Duration `validate:"gt=0"`

	// VerifyTimeout bounds one round trip from the setup form to /validate.
	// It must leave room for the probe behind it.
	VerifyTimeout time.Duration `validate:"gt=0,gtefield=ProbeTimeout"`
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:           getEnv("ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnvInt("PORT", 8631),
		HistoryDBPath: getEnv("HISTORY_DB_PATH", "connect.db"),
		ProbeTimeout:  time.Duration(getEnvInt("PROBE_TIMEOUT_SECONDS", 10)) * time.Second,
		VerifyTimeout: time.Duration(getEnvInt("VERIFY_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
