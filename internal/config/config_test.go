package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DatabaseDriver != "sqlite" {
		t.Errorf("unexpected defaults: addr=%s driver=%s", cfg.HTTPAddr, cfg.DatabaseDriver)
	}
	if cfg.AutoCheckoutCutoff.String() != "18:00" {
		t.Errorf("cutoff = %s", cfg.AutoCheckoutCutoff)
	}
	if cfg.Location != time.UTC {
		t.Errorf("location = %s", cfg.Location)
	}
	if cfg.LogLevel != logrus.InfoLevel {
		t.Errorf("level = %s", cfg.LogLevel)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without AUTH_JWT_SECRET")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for mysql driver")
	}
}

func TestClockOn(t *testing.T) {
	c, err := ParseClock("17:45")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	day := time.Date(2026, 10, 19, 9, 12, 0, 0, time.UTC)
	got := c.On(day)
	want := time.Date(2026, 10, 19, 17, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("On = %s, want %s", got, want)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Fatal("expected error for 25:00")
	}
}
