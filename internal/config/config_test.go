package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"podpress/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("expected default ffmpeg binary, got %q", cfg.Tools.FFmpeg)
	}
	if cfg.Editing.FillerSensitivity != 0.7 {
		t.Fatalf("expected default filler sensitivity, got %v", cfg.Editing.FillerSensitivity)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
}

func TestLoadOverridesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[logging]
format = "JSON"

[editing]
filler_sensitivity = 0.9
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("override not applied: %q", cfg.Tools.FFmpeg)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized format, got %q", cfg.Logging.Format)
	}
	if cfg.Editing.FillerSensitivity != 0.9 {
		t.Fatalf("override not applied: %v", cfg.Editing.FillerSensitivity)
	}
	if cfg.Editing.EDLFrameRate != 30 {
		t.Fatalf("unset fields should keep defaults, got %d", cfg.Editing.EDLFrameRate)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad format", "[logging]\nformat = \"xml\"\n"},
		{"sensitivity out of range", "[editing]\nfiller_sensitivity = 1.5\n"},
		{"zero frame rate", "[editing]\nedl_frame_rate = 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}
