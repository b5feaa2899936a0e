package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools names the external binaries the stages invoke.
type Tools struct {
	FFmpeg      string `toml:"ffmpeg"`
	FFprobe     string `toml:"ffprobe"`
	Transcriber string `toml:"transcriber"`
}

// Logging controls log output for the CLI and pipeline runs.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// Journal configures the SQLite pipeline event journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Ingestion holds the transcription defaults seeded into new manifests.
type Ingestion struct {
	TranscriptionModel    string `toml:"transcription_model"`
	TranscriptionLanguage string `toml:"transcription_language"`
}

// Editing holds the processing defaults seeded into new manifests.
type Editing struct {
	FillerSensitivity    float64 `toml:"filler_sensitivity"`
	MinSilenceDurationMs int     `toml:"min_silence_duration_ms"`
	SilenceKeepMs        int     `toml:"silence_keep_ms"`
	SpeakerTurnPauseMs   int     `toml:"speaker_turn_pause_ms"`
	DetectFalseStarts    bool    `toml:"detect_false_starts"`
	TangentMinConfidence float64 `toml:"tangent_min_confidence"`
	TangentAutoThreshold float64 `toml:"tangent_auto_threshold"`
	MaxTangentKeepSec    int     `toml:"max_tangent_keep_seconds"`
	CrossfadeDurationMs  int     `toml:"crossfade_duration_ms"`
	EDLFrameRate         int     `toml:"edl_frame_rate"`
}

// Mixing holds the render defaults seeded into new manifests.
type Mixing struct {
	OutputSampleRate int `toml:"output_sample_rate"`
	OutputBitDepth   int `toml:"output_bit_depth"`
}

// Mastering holds the loudness and encode defaults seeded into new manifests.
type Mastering struct {
	TargetLUFS        float64 `toml:"target_lufs"`
	TruePeakLimitDBTP float64 `toml:"true_peak_limit_dbtp"`
	LoudnormLRA       float64 `toml:"loudnorm_lra"`
	MP3BitrateKbps    int     `toml:"mp3_bitrate_kbps"`
	MP3SampleRate     int     `toml:"mp3_sample_rate"`
}

// Config is the root configuration for the podpress CLI.
type Config struct {
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
	Journal   Journal   `toml:"journal"`
	Ingestion Ingestion `toml:"ingestion"`
	Editing   Editing   `toml:"editing"`
	Mixing    Mixing    `toml:"mixing"`
	Mastering Mastering `toml:"mastering"`
}

// DefaultConfigPath returns the conventional config location.
func DefaultConfigPath() string {
	return "~/.config/podpress/config.toml"
}

// Load reads the configuration file at path, falling back to defaults when the
// file does not exist. An empty path means DefaultConfigPath.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath()
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply when no config file is present.
	default:
		return nil, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("config already exists: %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(resolved, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading tilde against the user's home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Logging.Dir, err = ExpandPath(c.Logging.Dir); err != nil {
		return err
	}
	if c.Journal.Path, err = ExpandPath(c.Journal.Path); err != nil {
		return err
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}
