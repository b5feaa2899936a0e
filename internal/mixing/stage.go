package mixing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"podpress/internal/alignment"
	"podpress/internal/edl"
	"podpress/internal/fileutil"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services"
	"podpress/internal/services/ffmpeg"
)

// Stage is the mixing pipeline stage.
type Stage struct {
	log    *slog.Logger
	client *ffmpeg.Client
}

// New creates the mixing stage.
func New(log *slog.Logger, client *ffmpeg.Client) *Stage {
	return &Stage{log: logging.NewComponentLogger(log, "mixing"), client: client}
}

// Name returns the stage identifier.
func (s *Stage) Name() string { return manifest.StageMixing }

// ValidateInputs checks the EDL, alignment map, and every source track.
func (s *Stage) ValidateInputs(root string, m *manifest.Manifest) []string {
	var problems []string
	sidecarPath := filepath.Join(root, m.Files.EDLSidecar)
	if !fileutil.Exists(sidecarPath) {
		problems = append(problems, fmt.Sprintf("EDL sidecar not found: %s", sidecarPath))
	}
	alignmentPath := filepath.Join(root, m.Files.AlignmentMap)
	if !fileutil.Exists(alignmentPath) {
		problems = append(problems, fmt.Sprintf("alignment map not found: %s", alignmentPath))
	}
	for _, p := range m.Project.Participants {
		trackPath := filepath.Join(root, p.Track)
		if !fileutil.Exists(trackPath) {
			problems = append(problems, fmt.Sprintf("source track not found: %s", trackPath))
		}
	}
	return problems
}

// MixLog is the mixing stage's report artifact.
type MixLog struct {
	Version           string  `json:"version"`
	EpisodeID         string  `json:"episode_id"`
	OutputFile        string  `json:"output_file"`
	OutputDuration    float64 `json:"output_duration_seconds"`
	OutputSampleRate  int     `json:"output_sample_rate"`
	OutputBitDepth    int     `json:"output_bit_depth"`
	RegionsApplied    int     `json:"edl_events_applied"`
	CrossfadesApplied int     `json:"crossfades_applied"`
	ProcessingSeconds float64 `json:"processing_time_seconds"`
}

// Run renders the edited episode from the source tracks.
func (s *Stage) Run(ctx context.Context, root string, m *manifest.Manifest) error {
	cfg := m.Config.Mixing
	started := time.Now()

	artifactsDir := filepath.Join(root, "artifacts", "mixing")
	tmpDir := filepath.Join(artifactsDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "prepare", "create work directory", err)
	}
	defer os.RemoveAll(tmpDir)

	sidecar, err := edl.LoadSidecar(filepath.Join(root, m.Files.EDLSidecar))
	if err != nil {
		return services.Wrap(services.ErrValidation, s.Name(), "load", "read EDL sidecar", err)
	}
	align, err := alignment.Load(filepath.Join(root, m.Files.AlignmentMap))
	if err != nil {
		return services.Wrap(services.ErrValidation, s.Name(), "load", "read alignment map", err)
	}

	regions := MapRegions(sidecar, align, m.SpeakerTracks())
	s.log.Info("timeline built", logging.Int("regions", len(regions)))
	m.RecordStep(s.Name(), "timeline")

	extracted, err := s.extractRegions(ctx, root, tmpDir, regions, cfg)
	if err != nil {
		return err
	}
	if len(extracted) == 0 {
		return services.Wrap(services.ErrValidation, s.Name(), "extract", "no regions could be mapped to source tracks", nil)
	}
	m.RecordStep(s.Name(), "extract")

	crossfadeMs := m.Config.Editing.CrossfadeDurationMs
	assembled, crossfades, err := s.assemble(ctx, tmpDir, extracted, crossfadeMs, cfg)
	if err != nil {
		return err
	}
	m.RecordStep(s.Name(), "assemble")

	mixedPath := filepath.Join(root, m.Files.MixedAudio)
	if err := os.MkdirAll(filepath.Dir(mixedPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "write", "create output directory", err)
	}
	if err := copyFile(assembled, mixedPath); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "write", "place mixed output", err)
	}

	probe, err := s.client.Probe(ctx, mixedPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, s.Name(), "probe", "inspect mixed output", err)
	}

	mixLog := MixLog{
		Version:           "1.0",
		EpisodeID:         sidecar.EpisodeID,
		OutputFile:        m.Files.MixedAudio,
		OutputDuration:    probe.DurationSeconds,
		OutputSampleRate:  probe.SampleRate,
		OutputBitDepth:    cfg.OutputBitDepth,
		RegionsApplied:    len(extracted),
		CrossfadesApplied: crossfades,
		ProcessingSeconds: time.Since(started).Seconds(),
	}
	if err := fileutil.WriteJSONAtomic(filepath.Join(root, m.Files.MixingLog), mixLog); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "write", "write mixing log", err)
	}
	m.RecordStep(s.Name(), "log")

	s.log.Info("mixing complete",
		logging.Int("regions", len(extracted)),
		logging.Int("crossfades", crossfades),
		logging.Float64("output_seconds", probe.DurationSeconds))
	return nil
}

func (s *Stage) extractRegions(ctx context.Context, root, tmpDir string, regions []Region, cfg manifest.MixingConfig) ([]string, error) {
	extracted := make([]string, 0, len(regions))
	for i, region := range regions {
		if region.TrackPath == "" {
			s.log.Warn("region has no source track, skipping",
				logging.String("edit_id", region.EditID),
				logging.String("speaker", region.Speaker))
			continue
		}
		source := filepath.Join(root, region.TrackPath)
		dest := filepath.Join(tmpDir, fmt.Sprintf("region-%04d.wav", i))
		err := s.client.ExtractRegion(ctx, source, dest, region.AdjustedStart(), region.Duration(), cfg.OutputSampleRate, cfg.OutputBitDepth)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, s.Name(), "extract",
				fmt.Sprintf("extract region %s", region.EditID), err)
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func (s *Stage) assemble(ctx context.Context, tmpDir string, parts []string, crossfadeMs int, cfg manifest.MixingConfig) (string, int, error) {
	if len(parts) == 1 {
		return parts[0], 0, nil
	}

	if crossfadeMs > 0 {
		current := parts[0]
		crossfades := 0
		for i := 1; i < len(parts); i++ {
			dest := filepath.Join(tmpDir, fmt.Sprintf("xfade-%04d.wav", i))
			if err := s.client.Crossfade(ctx, current, parts[i], dest, crossfadeMs, cfg.OutputSampleRate, cfg.OutputBitDepth); err != nil {
				return "", 0, services.Wrap(services.ErrExternalTool, s.Name(), "assemble", "apply crossfade", err)
			}
			current = dest
			crossfades++
		}
		return current, crossfades, nil
	}

	listFile := filepath.Join(tmpDir, "concat.txt")
	var list strings.Builder
	for _, part := range parts {
		fmt.Fprintf(&list, "file '%s'\n", part)
	}
	if err := os.WriteFile(listFile, []byte(list.String()), 0o644); err != nil {
		return "", 0, services.Wrap(services.ErrTransient, s.Name(), "assemble", "write concat list", err)
	}
	dest := filepath.Join(tmpDir, "assembled.wav")
	if err := s.client.Concat(ctx, listFile, dest, cfg.OutputSampleRate, cfg.OutputBitDepth); err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, s.Name(), "assemble", "concatenate regions", err)
	}
	return dest, 0, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
