package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FORGE_CONFIG", "/nonexistent/forge-config.toml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Run.TickPeriod != time.Millisecond {
		t.Fatalf("TickPeriod = %v, want 1ms", cfg.Run.TickPeriod)
	}
	if cfg.Run.Scenario != "single-pulse" {
		t.Fatalf("Scenario = %q, want single-pulse", cfg.Run.Scenario)
	}
	if cfg.Adapter.Kind != "simulator" {
		t.Fatalf("Adapter.Kind = %q, want simulator", cfg.Adapter.Kind)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FORGE_CONFIG", "/nonexistent/forge-config.toml")
	t.Setenv("FORGE_RUN_TICK_PERIOD", "250us")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Run.TickPeriod != 250*time.Microsecond {
		t.Fatalf("TickPeriod = %v, want 250us", cfg.Run.TickPeriod)
	}
}

func TestLoadRejectsBadPeriod(t *testing.T) {
	t.Setenv("FORGE_CONFIG", "/nonexistent/forge-config.toml")
	t.Setenv("FORGE_RUN_TICK_PERIOD", "sometime")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an unparsable tick period")
	}
}
