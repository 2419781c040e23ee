package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	want := &Config{
		SeasonAliases:    []string{"season", "s0", "시즌", "saison", "staffel", "temporada", "stagione"},
		EnableLogging:    true,
		LogRetentionDays: 30,
		LogLevel:         "info",
		LogFormat:        "console",
		ScanWorkers:      8,
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v, want nil", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("ConfigPath() = %v, want absolute path", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".title-lens" {
		t.Errorf("ConfigPath() = %v, want path containing .title-lens directory", path)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("ConfigPath() = %v, want path ending with config.json", path)
	}
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	configDir := filepath.Join(os.Getenv("HOME"), ".title-lens")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with non-existent file error = %v, want nil", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() with non-existent file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	writeConfig(t, `{
		"season_aliases": ["Season", " series ", ""],
		"strict_season_index": true,
		"strict_episode_index": true,
		"enable_logging": false,
		"log_retention_days": 60,
		"log_level": "debug",
		"log_format": "json",
		"scan_workers": 2,
		"max_depth": 4
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	want := &Config{
		SeasonAliases:      []string{"season", "series"},
		StrictSeasonIndex:  true,
		StrictEpisodeIndex: true,
		EnableLogging:      false,
		LogRetentionDays:   60,
		LogLevel:           "debug",
		LogFormat:          "json",
		ScanWorkers:        2,
		MaxDepth:           4,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	writeConfig(t, `{"log_retention_days": 60, "scan_workers": -1}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	want := DefaultConfig()
	want.LogRetentionDays = 60
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	writeConfig(t, `{"scan_workers": 2, "log_level": "warn"}`)
	t.Setenv("TITLE_LENS_SCAN_WORKERS", "16")
	t.Setenv("TITLE_LENS_STRICT_SEASON_INDEX", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.ScanWorkers != 16 {
		t.Errorf("ScanWorkers = %d, want 16 from environment", cfg.ScanWorkers)
	}
	if !cfg.StrictSeasonIndex {
		t.Errorf("StrictSeasonIndex = false, want true from environment")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q from file", cfg.LogLevel, "warn")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	writeConfig(t, `{invalid json}`)

	if _, err := Load(); err == nil {
		t.Error("Load() with invalid JSON error = nil, want error")
	}
}

func TestSetSeasonAliases(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetSeasonAliases([]string{" ", ""}); err == nil {
		t.Errorf("SetSeasonAliases(blank) error = nil, want error")
	}
	if err := cfg.SetSeasonAliases([]string{"Season", "SEASON", "Book"}); err != nil {
		t.Fatalf("SetSeasonAliases() error = %v", err)
	}
	if diff := cmp.Diff([]string{"season", "book"}, cfg.SeasonAliases); diff != "" {
		t.Errorf("SeasonAliases mismatch (-want +got):\n%s", diff)
	}
}

func TestSave(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	cfg := DefaultConfig()
	cfg.SeasonAliases = []string{"book"}
	cfg.LogRetentionDays = 90
	cfg.EnableLogging = false

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	data, err := os.ReadFile(filepath.Join(tempDir, ".title-lens", "config.json"))
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if diff := cmp.Diff(cfg, &saved); diff != "" {
		t.Errorf("Saved config mismatch (-want +got):\n%s", diff)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("Load() after Save() mismatch (-want +got):\n%s", diff)
	}
}
