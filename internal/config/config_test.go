package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GridSize != 5 {
		t.Errorf("GridSize = %d, want 5", cfg.GridSize)
	}
	if cfg.TestMode {
		t.Error("TestMode should default to false")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.SearchAttempts != 5 {
		t.Errorf("SearchAttempts = %d, want 5", cfg.SearchAttempts)
	}
	if cfg.APIBaseURL != "https://solved.ac/api/v3" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PROBLEMCRAWL_HANDLE", "alice")
	t.Setenv("PROBLEMCRAWL_GRID_SIZE", "7")
	t.Setenv("PROBLEMCRAWL_TEST_MODE", "true")
	t.Setenv("PROBLEMCRAWL_SEED", "99")
	t.Setenv("PROBLEMCRAWL_REQUEST_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Handle != "alice" || cfg.GridSize != 7 || !cfg.TestMode || cfg.Seed != 99 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.RequestTimeout != 250*time.Millisecond {
		t.Errorf("RequestTimeout = %v, want 250ms", cfg.RequestTimeout)
	}
}

func TestLoadRejectsSmallGrid(t *testing.T) {
	t.Setenv("PROBLEMCRAWL_GRID_SIZE", "1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should reject grid size 1")
	}
	if !strings.Contains(err.Error(), "grid size") {
		t.Errorf("error should mention grid size, got %v", err)
	}
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	t.Setenv("PROBLEMCRAWL_GRID_SIZE", "big")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on a non-integer grid size")
	}
}
