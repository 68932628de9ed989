package config

import (
	"errors"
	"testing"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/numeric"
)

var configEnv = []string{
	"SERVER_PORT", "SERVER_HOST", "DB_PATH", "CORS_ALLOWED_ORIGINS", "INTERNAL_API_KEY",
	"LOG_LEVEL", "LOG_PRETTY", "DECIMAL_PRECISION", "DECIMAL_ROUNDING", "SCHEDULER_ENABLED",
	"PRICE_REFRESH_SCHEDULE", "SNAPSHOT_SCHEDULE", "IBKR_FLEX_TOKEN", "IBKR_FLEX_QUERY_ID",
	"IBKR_SYNC_SCHEDULE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Addr != "localhost:5001" {
		t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
	}
	if cfg.Database.Path != "./data/fintu.db" {
		t.Errorf("Expected default db path, got %s", cfg.Database.Path)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("Expected 2 default origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Decimal != numeric.DefaultContext() {
		t.Errorf("Expected default decimal context, got %+v", cfg.Decimal)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("Expected scheduler enabled by default")
	}
	if cfg.IBKR.FlexQueryID != 0 || cfg.IBKR.SyncSchedule != "" {
		t.Errorf("Expected IBKR unconfigured, got %+v", cfg.IBKR)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://fintu.example , ")
	t.Setenv("DECIMAL_PRECISION", "28")
	t.Setenv("DECIMAL_ROUNDING", "half_even")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("IBKR_FLEX_TOKEN", "token")
	t.Setenv("IBKR_FLEX_QUERY_ID", "123456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("Expected addr 0.0.0.0:8080, got %s", cfg.Server.Addr)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://fintu.example" {
		t.Errorf("Expected one trimmed origin, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Decimal.Precision != 28 || cfg.Decimal.Rounding != numeric.RoundHalfEven {
		t.Errorf("Expected 28 digits half_even, got %+v", cfg.Decimal)
	}
	if cfg.Scheduler.Enabled {
		t.Error("Expected scheduler disabled")
	}
	if cfg.IBKR.FlexToken != "token" || cfg.IBKR.FlexQueryID != 123456 {
		t.Errorf("Unexpected IBKR config: %+v", cfg.IBKR)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"precision below minimum", "DECIMAL_PRECISION", "10"},
		{"precision not a number", "DECIMAL_PRECISION", "many"},
		{"unknown rounding", "DECIMAL_ROUNDING", "ceiling"},
		{"bad bool", "LOG_PRETTY", "sometimes"},
		{"bad query id", "IBKR_FLEX_QUERY_ID", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_InvalidPrecisionWrapsContextError(t *testing.T) {
	clearEnv(t)
	t.Setenv("DECIMAL_PRECISION", "5")

	_, err := Load()
	if !errors.Is(err, numeric.ErrInvalidContext) {
		t.Errorf("Expected ErrInvalidContext, got %v", err)
	}
}
