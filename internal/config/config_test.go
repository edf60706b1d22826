package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.PerPage != 1000 {
		t.Errorf("PerPage = %d, want 1000", cfg.PerPage)
	}
	if cfg.PageDelay != 500*time.Millisecond {
		t.Errorf("PageDelay = %v, want 500ms", cfg.PageDelay)
	}
	if cfg.BaseURL == "" {
		t.Error("BaseURL default missing")
	}
	if cfg.ProceedWithoutReady {
		t.Error("ProceedWithoutReady should default to false")
	}
	if cfg.RedisAddr != "" {
		t.Error("RedisAddr should default to disabled")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("base_url: http://localhost:8080\nper_page: 200\npage_delay: 100ms\nlog_level: debug\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.PerPage != 200 {
		t.Errorf("PerPage = %d, want 200", cfg.PerPage)
	}
	if cfg.PageDelay != 100*time.Millisecond {
		t.Errorf("PageDelay = %v, want 100ms", cfg.PageDelay)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NSEFETCH_OUTPUT_DIR", "/tmp/nse-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "/tmp/nse-test" {
		t.Errorf("OutputDir = %q, want env override", cfg.OutputDir)
	}
}

func TestLoad_Validation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("per_page: 5000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for per_page above ceiling")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
