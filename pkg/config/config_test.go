package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OUTPUT_DIR", filepath.Join(t.TempDir(), "out"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Backend.CacheTTL != time.Minute {
		t.Errorf("cache TTL = %v, want 1m", cfg.Backend.CacheTTL)
	}
	if cfg.Backend.RateLimitPerSecond != 10 {
		t.Errorf("rate limit = %d, want 10", cfg.Backend.RateLimitPerSecond)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_SCRIPT_URL", "https://script.example.com/exec")
	t.Setenv("BACKEND_CACHE_TTL", "5m")
	t.Setenv("BACKEND_RATE_LIMIT_PER_SECOND", "3")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("OUTPUT_DIR", filepath.Join(t.TempDir(), "campaigns"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Backend.ScriptURL != "https://script.example.com/exec" {
		t.Errorf("script URL = %q", cfg.Backend.ScriptURL)
	}
	if cfg.Backend.CacheTTL != 5*time.Minute {
		t.Errorf("cache TTL = %v", cfg.Backend.CacheTTL)
	}
	if cfg.Backend.RateLimitPerSecond != 3 {
		t.Errorf("rate limit = %d", cfg.Backend.RateLimitPerSecond)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
}

func TestLoad_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	t.Setenv("OUTPUT_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != dir {
		t.Errorf("output dir = %q, want %q", cfg.Output.Dir, dir)
	}
}

func TestGetIntEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("BACKEND_RATE_LIMIT_PER_SECOND", "not-a-number")
	t.Setenv("OUTPUT_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.RateLimitPerSecond != 10 {
		t.Errorf("rate limit = %d, want default on parse failure", cfg.Backend.RateLimitPerSecond)
	}
}
