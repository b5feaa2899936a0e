package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"podpress/internal/alignment"
	"podpress/internal/fileutil"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services"
	"podpress/internal/services/ffmpeg"
	"podpress/internal/services/transcriber"
	"podpress/internal/transcript"
)

// Stage is the ingestion pipeline stage.
type Stage struct {
	log    *slog.Logger
	probe  *ffmpeg.Client
	script *transcriber.Client
}

// New creates the ingestion stage.
func New(log *slog.Logger, probe *ffmpeg.Client, script *transcriber.Client) *Stage {
	return &Stage{
		log:    logging.NewComponentLogger(log, "ingestion"),
		probe:  probe,
		script: script,
	}
}

// Name returns the stage identifier.
func (s *Stage) Name() string { return manifest.StageIngestion }

// ValidateInputs checks that every participant has a source track on disk.
func (s *Stage) ValidateInputs(root string, m *manifest.Manifest) []string {
	var problems []string
	if len(m.Project.Participants) == 0 {
		problems = append(problems, "no participants defined in manifest")
	}
	for _, p := range m.Project.Participants {
		trackPath := filepath.Join(root, p.Track)
		if !fileutil.Exists(trackPath) {
			problems = append(problems, fmt.Sprintf("source track not found: %s", trackPath))
		}
	}
	return problems
}

// Run probes, transcribes, aligns, and merges the source tracks into the
// ingestion artifacts.
func (s *Stage) Run(ctx context.Context, root string, m *manifest.Manifest) error {
	artifactsDir := filepath.Join(root, "artifacts", "ingestion")
	tmpDir := filepath.Join(artifactsDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "prepare", "create artifact directory", err)
	}
	defer os.RemoveAll(tmpDir)

	sourceTracks, err := s.probeTracks(ctx, root, m)
	if err != nil {
		return err
	}
	m.Files.SourceTracks = sourceTracks
	m.RecordStep(s.Name(), "probe")

	tracks, err := s.transcribeTracks(ctx, root, tmpDir, m)
	if err != nil {
		return err
	}
	m.RecordStep(s.Name(), "transcribe")

	align := buildAlignment(m, sourceTracks)
	for i := range tracks {
		tracks[i].OffsetMs = align.OffsetFor(tracks[i].Track)
	}
	if err := alignment.Save(filepath.Join(root, m.Files.AlignmentMap), align); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "align", "write alignment map", err)
	}
	m.RecordStep(s.Name(), "align")

	merged := MergeTranscripts(tracks)
	duration := 0.0
	words := 0
	for _, seg := range merged {
		if seg.End > duration {
			duration = seg.End
		}
		words += seg.WordCount()
	}

	tr := &transcript.Transcript{
		Version:         "1.0",
		EpisodeID:       m.EpisodeID(),
		DurationSeconds: duration,
		Segments:        merged,
		Metadata: transcript.Metadata{
			TranscriptionModel: m.Config.Ingestion.TranscriptionModel,
			WordCount:          words,
			SegmentCount:       len(merged),
		},
	}
	if err := transcript.Save(filepath.Join(root, m.Files.Transcript), tr); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "merge", "write transcript", err)
	}
	m.RecordStep(s.Name(), "merge")

	s.log.Info("ingestion complete",
		logging.Int("tracks", len(tracks)),
		logging.Int("segments", len(merged)),
		logging.Float64("duration_seconds", duration))
	return nil
}

func (s *Stage) probeTracks(ctx context.Context, root string, m *manifest.Manifest) ([]manifest.SourceTrack, error) {
	tracks := make([]manifest.SourceTrack, 0, len(m.Project.Participants))
	for _, p := range m.Project.Participants {
		result, err := s.probe.Probe(ctx, filepath.Join(root, p.Track))
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, s.Name(), "probe",
				fmt.Sprintf("inspect track %s", p.Track), err)
		}
		tracks = append(tracks, manifest.SourceTrack{
			Path:            p.Track,
			DurationSeconds: result.DurationSeconds,
			SampleRate:      result.SampleRate,
			Channels:        result.Channels,
			Format:          result.Format,
		})
		s.log.Info("track cataloged",
			logging.String("track", p.Track),
			logging.Float64("duration_seconds", result.DurationSeconds),
			logging.Int("sample_rate", result.SampleRate))
	}
	return tracks, nil
}

func (s *Stage) transcribeTracks(ctx context.Context, root, tmpDir string, m *manifest.Manifest) ([]TrackSegments, error) {
	cfg := m.Config.Ingestion
	tracks := make([]TrackSegments, 0, len(m.Project.Participants))
	for _, p := range m.Project.Participants {
		source := filepath.Join(root, p.Track)
		jsonPath, err := s.script.Transcribe(ctx, source, tmpDir, cfg.TranscriptionModel, cfg.TranscriptionLanguage)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, s.Name(), "transcribe",
				fmt.Sprintf("transcribe track %s", p.Track), err)
		}
		segments, _, err := transcriber.LoadSegments(jsonPath)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, s.Name(), "transcribe",
				fmt.Sprintf("parse transcriber output for %s", p.Track), err)
		}
		tracks = append(tracks, TrackSegments{
			Speaker:  p.Name,
			Track:    p.Track,
			Segments: segments,
		})
		s.log.Info("track transcribed",
			logging.String("track", p.Track),
			logging.Int("segments", len(segments)))
	}
	return tracks, nil
}

// buildAlignment anchors every track to the first participant's track. Offsets
// stay zero unless a cross-correlation pass replaces the map later; the mixing
// stage reads whatever offsets the artifact carries.
func buildAlignment(m *manifest.Manifest, sourceTracks []manifest.SourceTrack) *alignment.Map {
	align := &alignment.Map{Version: "1.0"}
	endMs := 0.0
	for i, track := range sourceTracks {
		durationMs := track.DurationSeconds * 1000
		if durationMs > endMs {
			endMs = durationMs
		}
		align.Tracks = append(align.Tracks, alignment.Track{
			Path:        track.Path,
			OffsetMs:    0,
			DurationMs:  durationMs,
			SampleRate:  track.SampleRate,
			Channels:    track.Channels,
			IsReference: i == 0,
			Confidence:  1.0,
			Method:      "reference",
		})
		if i == 0 {
			align.ReferenceTrack = track.Path
		}
	}
	align.CommonTimeline = alignment.CommonTimeline{StartMs: 0, EndMs: endMs}
	return align
}
