package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "srtfix.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
flicker_threshold_ms: 200
output_suffix: ".clean.srt"
server:
  addr: "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FlickerThresholdMs != 200 {
		t.Errorf("expected flicker threshold 200, got %d", cfg.FlickerThresholdMs)
	}
	if cfg.OutputSuffix != ".clean.srt" {
		t.Errorf("expected suffix .clean.srt, got %q", cfg.OutputSuffix)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected addr override, got %q", cfg.Server.Addr)
	}

	// untouched keys keep their defaults
	if cfg.OverlapGapMs != 1 {
		t.Errorf("expected default gap 1, got %d", cfg.OverlapGapMs)
	}
	if cfg.Server.MaxBodyBytes != 10<<20 {
		t.Errorf("expected default body limit, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Path() != path {
		t.Errorf("expected Path() %q, got %q", path, cfg.Path())
	}

	opts := cfg.DedupeOptions()
	if opts.FlickerThreshold != 200*time.Millisecond {
		t.Errorf("expected 200ms threshold, got %v", opts.FlickerThreshold)
	}
	if opts.Gap != time.Millisecond {
		t.Errorf("expected 1ms gap, got %v", opts.Gap)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Concurrency != Default().Concurrency {
		t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("expected no config path, got %q", cfg.Path())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "flicker_treshold_ms: 10\n"))
	if err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SRTFIX_FFMPEG_PATH", "/opt/ffmpeg")
	t.Setenv("SRTFIX_ADDR", ":7000")

	cfg, err := Load(writeConfig(t, "ffmpeg_path: /usr/bin/ffmpeg\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg" {
		t.Errorf("expected env ffmpeg path, got %q", cfg.FFmpegPath)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.FlickerThresholdMs = -1 }},
		{"negative gap", func(c *Config) { c.OverlapGapMs = -1 }},
		{"negative append words", func(c *Config) { c.AppendMaxWords = -1 }},
		{"empty suffix", func(c *Config) { c.OutputSuffix = "" }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
