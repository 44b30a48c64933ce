package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DefaultCurrency != "BGN" {
		t.Errorf("DefaultCurrency = %q, want BGN", cfg.DefaultCurrency)
	}
	if !cfg.SettlementEpsilon.IsZero() {
		t.Errorf("SettlementEpsilon = %s, want 0 (currency default)", cfg.SettlementEpsilon)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath is empty")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GROUPIFY_DEFAULT_CURRENCY", "EUR")
	t.Setenv("GROUPIFY_SETTLEMENT_EPSILON", "0.05")
	t.Setenv("GROUPIFY_MAX_WORKERS", "8")
	t.Setenv("GROUPIFY_DB_PATH", "/tmp/test.db")

	cfg := Load()

	if cfg.DefaultCurrency != "EUR" {
		t.Errorf("DefaultCurrency = %q, want EUR", cfg.DefaultCurrency)
	}
	if !cfg.SettlementEpsilon.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("SettlementEpsilon = %s, want 0.05", cfg.SettlementEpsilon)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", cfg.MaxWorkers)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want /tmp/test.db", cfg.DBPath)
	}
}

func TestLoadClampsWorkers(t *testing.T) {
	t.Setenv("GROUPIFY_MAX_WORKERS", "100")
	if got := Load().MaxWorkers; got != 16 {
		t.Errorf("MaxWorkers = %d, want clamped to 16", got)
	}

	t.Setenv("GROUPIFY_MAX_WORKERS", "0")
	if got := Load().MaxWorkers; got != 1 {
		t.Errorf("MaxWorkers = %d, want clamped to 1", got)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GROUPIFY_MAX_WORKERS", "many")
	t.Setenv("GROUPIFY_SETTLEMENT_EPSILON", "a lot")

	cfg := Load()

	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want default 4", cfg.MaxWorkers)
	}
	if !cfg.SettlementEpsilon.IsZero() {
		t.Errorf("SettlementEpsilon = %s, want default 0", cfg.SettlementEpsilon)
	}
}
