package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != defaultDBMaxConns {
		t.Fatalf("expected default pool size %d, got %d", defaultDBMaxConns, cfg.DBMaxConns)
	}
	if cfg.ConnectTimeout != defaultConnectTimeout {
		t.Fatalf("expected default connect timeout %s, got %s", defaultConnectTimeout, cfg.ConnectTimeout)
	}
	if !cfg.MinWithdrawal.Equal(mustDecimal(t, defaultMinWithdrawal)) {
		t.Fatalf("expected default minimum withdrawal, got %s", cfg.MinWithdrawal)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected test env to count as dev")
	}
}

func TestLoadPoolAndTimeoutOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("CONNECT_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != 20 {
		t.Fatalf("expected pool size 20, got %d", cfg.DBMaxConns)
	}
	if cfg.ConnectTimeout != 2*time.Second {
		t.Fatalf("expected 2s connect timeout, got %s", cfg.ConnectTimeout)
	}
}

func TestLoadRejectsBadPoolSize(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_MAX_CONNS", "zero")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid DB_MAX_CONNS")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "test")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is unset")
	}
}
