package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestValidate_RejectsUnknownLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLayout = "spiral"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown layout kind")
	}
}

func TestValidate_RejectsNegativeGapSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GapSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative gap_size")
	}
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown log_level")
	}
}

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.DefaultLayout != DefaultConfig().DefaultLayout {
		t.Fatalf("DefaultLayout = %q, want default", cfg.DefaultLayout)
	}
}

func TestLoadFromPath_OverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gap_size: 20\ndefault_layout: columns\n"), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.GapSize != 20 {
		t.Fatalf("GapSize = %d, want 20", cfg.GapSize)
	}
	if cfg.DefaultLayout != "columns" {
		t.Fatalf("DefaultLayout = %q, want columns", cfg.DefaultLayout)
	}
	// Fields the file omits keep their built-in defaults.
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info (unset field should keep default)", cfg.LogLevel)
	}
}

func TestLoadFromPath_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gap_size: -5\n"), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected error for invalid config file")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Fatalf("DefaultConfigPath() = %q, want basename config.yaml", path)
	}
}
