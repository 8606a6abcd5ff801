package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != AppEnvDev || cfg.App.Port != "8080" {
		t.Fatalf("unexpected app defaults: %+v", cfg.App)
	}
	if !cfg.DB.IsSQLite() || cfg.DB.DSN != defaultSQLiteDSN {
		t.Fatalf("expected in-memory sqlite default, got driver=%q dsn=%q", cfg.DB.Driver, cfg.DB.DSN)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without a URL")
	}
	if !cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.08")) {
		t.Fatalf("unexpected tax rate %s", cfg.Pricing.TaxRate)
	}
	if !cfg.Pricing.ShippingFee.Equal(decimal.RequireFromString("4.99")) {
		t.Fatalf("unexpected shipping fee %s", cfg.Pricing.ShippingFee)
	}
	if got := cfg.Pricing.PromoCodes["GAMER10"]; got != 10 {
		t.Fatalf("expected GAMER10 to map to 10, got %d", got)
	}
	if cfg.Pricing.WaiveEmptyCartShipping() {
		t.Fatalf("empty cart shipping should be charged by default")
	}
	if cfg.Catalog.PageSize != 12 || cfg.Catalog.LowStockThreshold != 5 {
		t.Fatalf("unexpected catalog defaults: %+v", cfg.Catalog)
	}
	if cfg.Checkout.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected idempotency ttl %v", cfg.Checkout.IdempotencyTTL)
	}
}

func TestLoad_PostgresRequiresDSNOrLegacy(t *testing.T) {
	t.Setenv(EnvDBDriver, DriverPostgres)
	if _, err := Load(); err == nil {
		t.Fatal("expected missing postgres settings to return an error")
	}

	t.Setenv(EnvDBHost, "localhost")
	t.Setenv(EnvDBUser, "store")
	t.Setenv(EnvDBName, "gamestore")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://store@localhost:5432/gamestore?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_RejectsBadPricing(t *testing.T) {
	t.Setenv("GAMESTORE_PRICING_EMPTY_CART_POLICY", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown empty cart policy to fail")
	}
}

func TestLoad_RejectsPromoOutOfRange(t *testing.T) {
	t.Setenv("GAMESTORE_PRICING_PROMO_CODES", "GAMER10:10,FREE:150")
	if _, err := Load(); err == nil {
		t.Fatal("expected promo percent above 100 to fail")
	}
}

func TestLoad_RejectsBadDemoShopper(t *testing.T) {
	t.Setenv("GAMESTORE_DEMO_SHOPPER_ID", "demo")
	if _, err := Load(); err == nil {
		t.Fatal("expected malformed demo shopper id to fail")
	}
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv(EnvDBDriver, "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}

func TestPricingConfigWaivePolicy(t *testing.T) {
	p := PricingConfig{EmptyCartPolicy: "WAIVE"}
	if !p.WaiveEmptyCartShipping() {
		t.Fatal("expected waive policy to be case-insensitive")
	}
}
