//go:build !integration

package config

import (
	"os"
	"testing"
	"time"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "DATABASE_URL", "EVENT_BROKER", "EVENT_CHANNEL", "SESSION_TTL", "SIMULATION_EMPTY_AUDIENCE", "SIMULATION_COST_PER_SEND")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Events.Channel != "crm_events" {
		t.Errorf("Events.Channel = %q, want crm_events", cfg.Events.Channel)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("Session.TTL = %v, want 1h", cfg.Session.TTL)
	}
	if cfg.Simulation.CostPerSend != 0.01 {
		t.Errorf("Simulation.CostPerSend = %v, want 0.01", cfg.Simulation.CostPerSend)
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	unsetenv(t, "SECRET_KEY", "EVENT_BROKER", "SIMULATION_EMPTY_AUDIENCE")
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for default secret in production")
	}
}

func TestLoadRejectsUnknownBroker(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("EVENT_BROKER", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown broker")
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "crm", Password: "s3cret", Name: "crm", SSLMode: "disable"}
	want := "postgres://crm:s3cret@db:5432/crm?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	d.URL = "postgres://override"
	if got := d.DSN(); got != "postgres://override" {
		t.Errorf("DSN() with URL = %q", got)
	}
}
