package update

import "testing"

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.DatabasePath != "kairu.db" {
		t.Fatalf("expected default database path, got %q", cfg.DatabasePath)
	}
	if cfg.EnergyCheckMinutes != 60 {
		t.Fatalf("expected 60 minute energy check interval, got %d", cfg.EnergyCheckMinutes)
	}
	if cfg.PromptBuffer != 64 {
		t.Fatalf("expected prompt buffer 64, got %d", cfg.PromptBuffer)
	}
	if cfg.QuickSearchLimit != 7 {
		t.Fatalf("expected quick search limit 7, got %d", cfg.QuickSearchLimit)
	}
	if cfg.SimplifiedMode {
		t.Fatalf("expected simplified mode off by default")
	}
}

func TestRuntimeConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("KAIRU_DB_PATH", "/tmp/kairu-test.db")
	t.Setenv("KAIRU_ENERGY_CHECK_MINUTES", "30")
	t.Setenv("KAIRU_PROMPT_BUFFER", "8")
	t.Setenv("KAIRU_QUICK_SEARCH_LIMIT", "3")
	t.Setenv("KAIRU_SIMPLIFIED_MODE", "true")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DatabasePath != "/tmp/kairu-test.db" {
		t.Fatalf("expected database path override, got %q", cfg.DatabasePath)
	}
	if cfg.EnergyCheckMinutes != 30 {
		t.Fatalf("expected energy check override 30, got %d", cfg.EnergyCheckMinutes)
	}
	if cfg.PromptBuffer != 8 {
		t.Fatalf("expected prompt buffer override 8, got %d", cfg.PromptBuffer)
	}
	if cfg.QuickSearchLimit != 3 {
		t.Fatalf("expected quick search limit override 3, got %d", cfg.QuickSearchLimit)
	}
	if !cfg.SimplifiedMode {
		t.Fatalf("expected simplified mode enabled")
	}
}

func TestRuntimeConfigFromEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv("KAIRU_ENERGY_CHECK_MINUTES", "soon")
	t.Setenv("KAIRU_PROMPT_BUFFER", "-4")
	t.Setenv("KAIRU_SIMPLIFIED_MODE", "maybe")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.EnergyCheckMinutes != 60 {
		t.Fatalf("expected invalid interval ignored, got %d", cfg.EnergyCheckMinutes)
	}
	if cfg.PromptBuffer != 64 {
		t.Fatalf("expected non-positive buffer ignored, got %d", cfg.PromptBuffer)
	}
	if cfg.SimplifiedMode {
		t.Fatalf("expected unparseable bool ignored")
	}
}
