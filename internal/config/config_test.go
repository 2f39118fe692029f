package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "dosewise-api" {
		t.Errorf("App.Name = %q, want dosewise-api", cfg.App.Name)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("Server.Address() = %q, want 0.0.0.0:8080", cfg.Server.Address())
	}
	if cfg.Database.Name != "dosewise" {
		t.Errorf("Database.Name = %q, want dosewise", cfg.Database.Name)
	}
	if cfg.Reminder.LookAhead != 30*time.Minute {
		t.Errorf("Reminder.LookAhead = %v, want 30m", cfg.Reminder.LookAhead)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REMINDER_LOOK_AHEAD", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Reminder.LookAhead != time.Hour {
		t.Errorf("Reminder.LookAhead = %v, want 1h", cfg.Reminder.LookAhead)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORS.AllowedOrigins = %v, want two trimmed origins", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = false, want true")
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("REMINDER_LOOK_AHEAD", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
	if cfg.Reminder.LookAhead != 30*time.Minute {
		t.Errorf("Reminder.LookAhead = %v, want fallback 30m", cfg.Reminder.LookAhead)
	}
}

func TestValidateProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_SSLMODE", "disable")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil, want production validation failure")
	}
	if !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Errorf("error %q does not mention DB_PASSWORD", err)
	}
	if !strings.Contains(err.Error(), "DB_SSLMODE") {
		t.Errorf("error %q does not mention DB_SSLMODE", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5433, Name: "dosewise",
		User: "svc", Password: "secret", SSLMode: "require",
	}
	got := d.DSN()
	want := "host=db.internal user=svc password=secret dbname=dosewise port=5433 sslmode=require TimeZone=UTC"
	if got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
