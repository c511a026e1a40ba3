package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.TrialDays != 14 {
		t.Errorf("TrialDays = %d, want 14", cfg.TrialDays)
	}
	if cfg.MarkerPolicy != MarkerAfterDispatch {
		t.Errorf("MarkerPolicy = %q, want %q", cfg.MarkerPolicy, MarkerAfterDispatch)
	}
	if cfg.DeletionExpiry != 168*time.Hour {
		t.Errorf("DeletionExpiry = %v, want 168h", cfg.DeletionExpiry)
	}
	if cfg.LogRetention != 720*time.Hour {
		t.Errorf("LogRetention = %v, want 720h", cfg.LogRetention)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		LegacyDBUser:     "wp",
		LegacyDBPassword: "secret",
		LegacyDBHost:     "db1",
		LegacyDBPort:     "3306",
		LegacyDBName:     "memre_legacy",
	}

	want := "wp:secret@tcp(db1:3306)/memre_legacy?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := cfg.LegacyDSN(); got != want {
		t.Errorf("LegacyDSN() = %q, want %q", got, want)
	}
}

func TestMarkerPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"after_dispatch", MarkerAfterDispatch},
		{"after_delivery", MarkerAfterDelivery},
		{"garbage", MarkerAfterDispatch},
		{"", MarkerAfterDispatch},
	}

	for _, tt := range tests {
		if got := markerPolicy(tt.in); got != tt.want {
			t.Errorf("markerPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := parseInt("21", 14); got != 21 {
		t.Errorf("parseInt(21) = %d", got)
	}
	if got := parseInt("x", 14); got != 14 {
		t.Errorf("parseInt(x) = %d, want fallback 14", got)
	}
}
