package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.App.Env != EnvDevelopment {
		t.Errorf("Expected development default, got %s", cfg.App.Env)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Unexpected default addr %s", cfg.Addr())
	}
	if cfg.Schedule.MaxRangeDays != 366 {
		t.Errorf("Expected 366 day default bound, got %d", cfg.Schedule.MaxRangeDays)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ROSTER_ENV", "production")
	t.Setenv("ROSTER_HTTP_PORT", "9090")
	t.Setenv("ROSTER_MAX_RANGE_DAYS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.IsDevelopment() {
		t.Error("Expected production environment")
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.HTTP.Port)
	}
	if cfg.Schedule.MaxRangeDays != 30 {
		t.Errorf("Expected 30 day bound, got %d", cfg.Schedule.MaxRangeDays)
	}
}

func TestLoad_RejectsNonPositiveBound(t *testing.T) {
	t.Setenv("ROSTER_MAX_RANGE_DAYS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("Expected error for zero range bound")
	}
}
