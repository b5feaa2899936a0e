package editing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"podpress/internal/edl"
	"podpress/internal/fileutil"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services"
	"podpress/internal/transcript"
)

// falseStartMinGapMs is the pause after a short utterance that marks it as
// abandoned rather than mid-sentence.
const falseStartMinGapMs = 500

// Stage is the editing pipeline stage.
type Stage struct {
	log *slog.Logger
}

// New creates the editing stage.
func New(log *slog.Logger) *Stage {
	return &Stage{log: logging.NewComponentLogger(log, "editing")}
}

// Name returns the stage identifier.
func (s *Stage) Name() string { return manifest.StageEditing }

// ValidateInputs checks that the ingestion artifacts this stage consumes are
// present before any state transition happens.
func (s *Stage) ValidateInputs(root string, m *manifest.Manifest) []string {
	var problems []string
	transcriptPath := filepath.Join(root, m.Files.Transcript)
	if !fileutil.Exists(transcriptPath) {
		problems = append(problems, fmt.Sprintf("transcript not found: %s", transcriptPath))
	}
	alignmentPath := filepath.Join(root, m.Files.AlignmentMap)
	if !fileutil.Exists(alignmentPath) {
		problems = append(problems, fmt.Sprintf("alignment map not found: %s", alignmentPath))
	}
	return problems
}

// Run detects cuts, aggregates them under the auto-cut budget, and writes the
// EDL, chapter, and rationale artifacts.
func (s *Stage) Run(ctx context.Context, root string, m *manifest.Manifest) error {
	cfg := m.Config.Editing
	artifactsDir := filepath.Join(root, "artifacts", "editing")
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "prepare", "create artifact directory", err)
	}

	tr, err := transcript.Load(filepath.Join(root, m.Files.Transcript))
	if err != nil {
		return services.Wrap(services.ErrValidation, s.Name(), "load", "read transcript", err)
	}
	doc, err := LoadContext(filepath.Join(root, m.Files.ContextDocument))
	if err != nil {
		return services.Wrap(services.ErrValidation, s.Name(), "load", "read context document", err)
	}
	if doc == nil {
		s.log.Warn("context document not found, running in degraded mode")
	}
	m.RecordStep(s.Name(), "load")

	fillers := DetectFillers(tr.Segments, cfg.FillerSensitivity)
	var falseStarts []edl.Edit
	if cfg.DetectFalseStarts {
		falseStarts = DetectFalseStarts(tr.Segments, falseStartMinGapMs)
	}
	s.log.Info("filler detection complete",
		logging.Int("fillers", len(fillers)),
		logging.Int("false_starts", len(falseStarts)))
	m.RecordStep(s.Name(), "filler")

	silences := DetectSilences(tr.Segments, SilenceOptions{
		MinDurationMs:      cfg.MinSilenceDurationMs,
		KeepMs:             cfg.SilenceKeepMs,
		SpeakerTurnPauseMs: cfg.SpeakerTurnPauseMs,
	})
	s.log.Info("silence detection complete", logging.Int("silences", len(silences)))
	m.RecordStep(s.Name(), "silence")

	tangents, err := LoadTangents(filepath.Join(root, m.Files.TangentReport), TangentOptions{
		MinConfidence:  cfg.TangentMinConfidence,
		AutoThreshold:  cfg.TangentAutoThreshold,
		MaxKeepSeconds: cfg.MaxTangentKeepSec,
	})
	if err != nil {
		return services.Wrap(services.ErrValidation, s.Name(), "tangent", "read tangent report", err)
	}
	m.RecordStep(s.Name(), "tangent")

	cuts := make([]edl.Edit, 0, len(fillers)+len(falseStarts)+len(silences)+len(tangents))
	cuts = append(cuts, fillers...)
	cuts = append(cuts, falseStarts...)
	cuts = append(cuts, silences...)
	cuts = append(cuts, tangents...)
	cuts = Coalesce(cuts)

	duration := tr.DurationSeconds
	if duration <= 0 && len(tr.Segments) > 0 {
		duration = tr.Segments[len(tr.Segments)-1].End
	}
	if demoted := CapAutoCuts(cuts, duration); demoted > 0 {
		s.log.Warn("auto-cut budget exceeded, demoted weakest cuts to review",
			logging.Int("demoted", demoted))
	}
	m.RecordStep(s.Name(), "aggregate")

	chapters := edl.BuildChapters(doc.Markers(), cuts)
	if err := fileutil.WriteJSONAtomic(filepath.Join(root, m.Files.Chapters), chaptersArtifact{
		Version:  "1.0",
		Chapters: chapters,
	}); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "chapters", "write chapters", err)
	}
	m.RecordStep(s.Name(), "chapters")

	sidecar := edl.Build(tr.Segments, cuts, edl.BuildOptions{
		EpisodeID:           tr.EpisodeID,
		FrameRate:           cfg.EDLFrameRate,
		CrossfadeDurationMs: cfg.CrossfadeDurationMs,
	})
	if err := sidecar.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, s.Name(), "edl", "built timeline is inconsistent", err)
	}
	if err := edl.SaveSidecar(filepath.Join(root, m.Files.EDLSidecar), sidecar); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "edl", "write sidecar", err)
	}
	if err := fileutil.WriteAtomic(filepath.Join(root, m.Files.EDL), []byte(edl.RenderCMX3600(sidecar)), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "edl", "write CMX document", err)
	}

	rationale := BuildRationale(sidecar.CutEdits())
	if err := fileutil.WriteJSONAtomic(filepath.Join(root, m.Files.EditRationale), rationale); err != nil {
		return services.Wrap(services.ErrTransient, s.Name(), "rationale", "write rationale", err)
	}
	m.RecordStep(s.Name(), "edl")

	s.log.Info("editing complete",
		logging.Int("edits", rationale.Summary.TotalEdits),
		logging.Int("auto_applied", rationale.Summary.AutoApplied),
		logging.Int("flagged", rationale.Summary.FlaggedForReview),
		logging.Float64("time_removed_seconds", sidecar.TimeRemovedSeconds),
		logging.Float64("time_removed_percent", sidecar.TimeRemovedPercent))
	return nil
}

type chaptersArtifact struct {
	Version  string        `json:"version"`
	Chapters []edl.Chapter `json:"chapters"`
}
