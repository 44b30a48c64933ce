// Package config loads runtime settings from environment variables with
// sensible defaults. Flags in cmd/groupify can override most of these.
package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Worker bounds for concurrent image scanning.
const (
	workersMin = 1
	workersMax = 16
)

type Config struct {
	// DefaultCurrency is the ISO code used for parsed receipts.
	DefaultCurrency string

	// SettlementEpsilon overrides the settled-balance tolerance. The
	// zero value means "one minor unit of the receipt currency".
	SettlementEpsilon decimal.Decimal

	// MaxWorkers bounds concurrent receipt image scans.
	MaxWorkers int

	// MaxImageSizeBytes rejects oversized receipt photographs.
	MaxImageSizeBytes int64

	// GeminiModel is the vision model used for OCR.
	GeminiModel string

	// GeminiAPIKey authenticates the OCR scanner. Empty disables
	// scanning; the shell can still work with saved sessions.
	GeminiAPIKey string

	// DBPath is the SQLite session database location.
	DBPath string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		DefaultCurrency:   getEnv("GROUPIFY_DEFAULT_CURRENCY", "BGN"),
		SettlementEpsilon: getEnvDecimal("GROUPIFY_SETTLEMENT_EPSILON", decimal.Zero),
		MaxWorkers:        clamp(getEnvInt("GROUPIFY_MAX_WORKERS", 4), workersMin, workersMax),
		MaxImageSizeBytes: getEnvInt64("GROUPIFY_MAX_IMAGE_SIZE_BYTES", 50*1024*1024),
		GeminiModel:       getEnv("GROUPIFY_GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		DBPath:            getEnv("GROUPIFY_DB_PATH", "./data/groupify.db"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return fallback
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
