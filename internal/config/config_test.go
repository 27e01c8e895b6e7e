package config

import (
	"testing"
)

func TestLoadAppliesDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("PAYMENT_FEE_PERCENTAGE", "3.2")

	cfg := Load()
	if cfg.Server.Port != "9191" {
		t.Fatalf("server port want 9191 got %s", cfg.Server.Port)
	}
	if cfg.Payment.FeePercentage != 3.2 {
		t.Fatalf("fee percentage want 3.2 got %v", cfg.Payment.FeePercentage)
	}
	if cfg.Order.OrderNoMaxAttempts != 3 {
		t.Fatalf("order no attempts want 3 got %d", cfg.Order.OrderNoMaxAttempts)
	}
	if cfg.Order.DefaultCustomerState != "W" {
		t.Fatalf("default customer state want W got %s", cfg.Order.DefaultCustomerState)
	}
	if len(cfg.Bootstrap.PrintSizes) == 0 {
		t.Fatalf("expected default print size seeds")
	}
	if cfg.Stats.RevenueWindowDays != 30 {
		t.Fatalf("revenue window want 30 got %d", cfg.Stats.RevenueWindowDays)
	}
}

func TestJWTWeakSecret(t *testing.T) {
	cases := map[string]bool{
		"short":                              true,
		"please-change-me-0123456789abcdef":  true,
		"Kq3v9XzP1mT8rLw2Yb6Nd4Hs0Gf7Jc5Ea!": false,
	}
	for secret, want := range cases {
		if got := (JWTConfig{SecretKey: secret}).WeakSecret(); got != want {
			t.Fatalf("WeakSecret(%q) = %v, want %v", secret, got, want)
		}
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: "8080", Mode: "release"}
	if s.Addr() != "0.0.0.0:8080" || !s.IsRelease() {
		t.Fatalf("unexpected server config helpers: %q %v", s.Addr(), s.IsRelease())
	}
}
