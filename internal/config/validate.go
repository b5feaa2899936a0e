package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration values that would otherwise surface as
// confusing failures deep inside a stage run.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		problems = append(problems, "tools.ffmpeg must not be empty")
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		problems = append(problems, "tools.ffprobe must not be empty")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if c.Editing.FillerSensitivity < 0 || c.Editing.FillerSensitivity > 1 {
		problems = append(problems, "editing.filler_sensitivity must be within [0, 1]")
	}
	if c.Editing.MinSilenceDurationMs < 0 {
		problems = append(problems, "editing.min_silence_duration_ms must not be negative")
	}
	if c.Editing.TangentMinConfidence < 0 || c.Editing.TangentMinConfidence > 1 {
		problems = append(problems, "editing.tangent_min_confidence must be within [0, 1]")
	}
	if c.Editing.TangentAutoThreshold < 0 || c.Editing.TangentAutoThreshold > 1 {
		problems = append(problems, "editing.tangent_auto_threshold must be within [0, 1]")
	}
	if c.Editing.CrossfadeDurationMs < 0 {
		problems = append(problems, "editing.crossfade_duration_ms must not be negative")
	}
	if c.Editing.EDLFrameRate <= 0 {
		problems = append(problems, "editing.edl_frame_rate must be positive")
	}
	if c.Mixing.OutputSampleRate <= 0 {
		problems = append(problems, "mixing.output_sample_rate must be positive")
	}
	if c.Mastering.MP3BitrateKbps <= 0 {
		problems = append(problems, "mastering.mp3_bitrate_kbps must be positive")
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		problems = append(problems, "journal.path must be set when journal.enabled is true")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
