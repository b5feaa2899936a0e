package mastering

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"podpress/internal/fileutil"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services"
	"podpress/internal/services/ffmpeg"
)

// durationToleranceSeconds is how far an encoded output may drift from the
// normalized master before verification fails. Encoder padding stays well
// under this.
const durationToleranceSeconds = 0.5

// Stage is the mastering pipeline stage.
type Stage struct {
	log    *slog.Logger
	client *ffmpeg.Client
}

// New creates the mastering stage.
func New(log *slog.Logger, client *ffmpeg.Client) *Stage {
	return &Stage{log: logging.NewComponentLogger(log, "mastering"), client: client}
}

// Name returns the stage identifier.
func (s *Stage) Name() string { return manifest.StageMastering }

// ValidateInputs checks that the mixed episode exists.
func (s *Stage) ValidateInputs(root string, m *manifest.Manifest) []string {
	var problems []string
	mixedPath := filepath.Join(root, m.Files.MixedAudio)
	if !fileutil.Exists(mixedPath) {
		problems = append(problems, fmt.Sprintf("mixed audio not found: %s", mixedPath))
	}
	return problems
}

// OutputFile describes one delivered file in the metadata report.
type OutputFile struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	SHA256          string  `json:"sha256"`
}

// Report is the mastering stage's metadata artifact.
type Report struct {
	Version      string     `json:"version"`
	EpisodeID    string     `json:"episode_id"`
	TargetLUFS   float64    `json:"target_lufs"`
	TruePeakDBTP float64    `json:"true_peak_limit_dbtp"`
	MP3          OutputFile `json:"mp3"`
	WAV          OutputFile `json:"wav"`
}

// Run normalizes loudness and encodes the delivery files.
func (s *Stage) Run(ctx context.Context, root string, m *manifest.Manifest) error {
	cfg := m.Config.Mastering
	artifactsDir := filepath.Join(root, "artifacts", "mastering")
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "prepare", "create artifact directory", err)
	}

	mixedPath := filepath.Join(root, m.Files.MixedAudio)
	wavPath := filepath.Join(root, m.Files.MasteredWAV)
	mp3Path := filepath.Join(root, m.Files.MasteredMP3)

	err := s.client.Loudnorm(ctx, mixedPath, wavPath, ffmpeg.LoudnormOptions{
		TargetLUFS:   cfg.TargetLUFS,
		TruePeakDBTP: cfg.TruePeakLimitDBTP,
		LRA:          cfg.LoudnormLRA,
		SampleRate:   cfg.MP3SampleRate,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, s.Name(), "loudnorm", "normalize loudness", err)
	}
	m.RecordStep(s.Name(), "loudnorm")

	if err := s.client.EncodeMP3(ctx, wavPath, mp3Path, cfg.MP3BitrateKbps, cfg.MP3SampleRate); err != nil {
		return services.Wrap(services.ErrExternalTool, s.Name(), "encode", "encode MP3", err)
	}
	m.RecordStep(s.Name(), "encode")

	wavInfo, err := s.verifyOutput(ctx, wavPath)
	if err != nil {
		return err
	}
	mp3Info, err := s.verifyOutput(ctx, mp3Path)
	if err != nil {
		return err
	}
	if drift := math.Abs(wavInfo.DurationSeconds - mp3Info.DurationSeconds); drift > durationToleranceSeconds {
		return services.Wrap(services.ErrValidation, s.Name(), "verify",
			fmt.Sprintf("encoded outputs drift by %.2fs", drift), nil)
	}
	m.RecordStep(s.Name(), "verify")

	wavSum, err := fileutil.Checksum(wavPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "metadata", "checksum WAV", err)
	}
	mp3Sum, err := fileutil.Checksum(mp3Path)
	if err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "metadata", "checksum MP3", err)
	}

	report := Report{
		Version:      "1.0",
		EpisodeID:    m.EpisodeID(),
		TargetLUFS:   cfg.TargetLUFS,
		TruePeakDBTP: cfg.TruePeakLimitDBTP,
		MP3:          OutputFile{Path: m.Files.MasteredMP3, DurationSeconds: mp3Info.DurationSeconds, SHA256: mp3Sum},
		WAV:          OutputFile{Path: m.Files.MasteredWAV, DurationSeconds: wavInfo.DurationSeconds, SHA256: wavSum},
	}
	if err := fileutil.WriteJSONAtomic(filepath.Join(root, m.Files.MasteringReport), report); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "metadata", "write mastering report", err)
	}
	m.RecordStep(s.Name(), "metadata")

	s.log.Info("mastering complete",
		logging.Float64("duration_seconds", mp3Info.DurationSeconds),
		logging.Float64("target_lufs", cfg.TargetLUFS))
	return nil
}

func (s *Stage) verifyOutput(ctx context.Context, path string) (ffmpeg.ProbeResult, error) {
	if !fileutil.Exists(path) {
		return ffmpeg.ProbeResult{}, services.Wrap(services.ErrExternalTool, s.Name(), "verify",
			fmt.Sprintf("expected output missing: %s", path), nil)
	}
	info, err := s.client.Probe(ctx, path)
	if err != nil {
		return ffmpeg.ProbeResult{}, services.Wrap(services.ErrExternalTool, s.Name(), "verify",
			fmt.Sprintf("inspect %s", path), err)
	}
	return info, nil
}
