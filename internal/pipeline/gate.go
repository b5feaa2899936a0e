package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"podpress/internal/edl"
	"podpress/internal/fileutil"
	"podpress/internal/manifest"
	"podpress/internal/transcript"
)

// FindPendingGate returns the first stage in fixed order that completed but
// still awaits a review decision.
func FindPendingGate(m *manifest.Manifest) (string, bool) {
	for _, name := range manifest.StageOrder() {
		if m.Stage(name).GatePending() {
			return name, true
		}
	}
	return "", false
}

// Approve marks the pending gate as approved and advances current_stage to
// the next stage, or to complete after the last one. The caller persists the
// manifest.
func Approve(m *manifest.Manifest, notes string) (string, error) {
	name, ok := FindPendingGate(m)
	if !ok {
		return "", ErrNoGatePending
	}
	status := m.Stage(name)
	approved := true
	now := time.Now().UTC()
	status.GateApproved = &approved
	status.GateApprovedAt = &now
	status.GateNotes = notes
	m.Pipeline.CurrentStage = manifest.NextStage(name)
	return name, nil
}

// Reject resets the pending gate's stage to pending so a subsequent run
// re-executes it from scratch. The caller persists the manifest.
func Reject(m *manifest.Manifest, notes string) (string, error) {
	name, ok := FindPendingGate(m)
	if !ok {
		return "", ErrNoGatePending
	}
	status := m.Stage(name)
	status.Status = manifest.StatePending
	status.StartedAt = nil
	status.CompletedAt = nil
	status.GateApproved = nil
	status.GateApprovedAt = nil
	status.GateNotes = notes
	status.LastCompletedStep = ""
	m.Pipeline.CurrentStage = name
	return name, nil
}

// GateStat is one read-only metric row shown to the reviewer alongside the
// artifact paths.
type GateStat struct {
	Label string
	Value string
}

// GateSummary is the read-only presentation data for a pending gate. Building
// it never mutates state; the decision itself is delivered by the caller.
type GateSummary struct {
	Stage       string
	Project     string
	EpisodeID   string
	CompletedAt *time.Time
	Stats       []GateStat
	Artifacts   []string
}

// SummarizeGate collects the artifact paths a reviewer should inspect for the
// given pending stage, plus the headline numbers pulled out of those
// artifacts. An unreadable artifact drops its stats but keeps its path; the
// reviewer still sees what to open by hand.
func SummarizeGate(root string, m *manifest.Manifest, stage string) (GateSummary, error) {
	if !manifest.KnownStage(stage) {
		return GateSummary{}, fmt.Errorf("%w: %s", ErrUnknownStage, stage)
	}
	summary := GateSummary{
		Stage:       stage,
		Project:     m.Project.Name,
		EpisodeID:   m.EpisodeID(),
		CompletedAt: m.Stage(stage).CompletedAt,
	}
	switch stage {
	case manifest.StageIngestion:
		summary.Artifacts = []string{m.Files.Transcript, m.Files.AlignmentMap}
		summary.Stats = ingestionStats(root, m)
	case manifest.StageEditing:
		summary.Artifacts = []string{m.Files.EDLSidecar, m.Files.EDL, m.Files.EditRationale, m.Files.Chapters}
		summary.Stats = editingStats(root, m)
	case manifest.StageMixing:
		summary.Artifacts = []string{m.Files.MixedAudio, m.Files.MixingLog}
		summary.Stats = mixingStats(root, m)
	case manifest.StageMastering:
		summary.Artifacts = []string{m.Files.MasteredMP3, m.Files.MasteredWAV, m.Files.MasteringReport}
		summary.Stats = masteringStats(root, m)
	}
	return summary, nil
}

func ingestionStats(root string, m *manifest.Manifest) []GateStat {
	tr, err := transcript.Load(filepath.Join(root, m.Files.Transcript))
	if err != nil {
		return nil
	}
	stats := []GateStat{
		{Label: "Duration", Value: clock(tr.DurationSeconds)},
		{Label: "Segments", Value: fmt.Sprintf("%d", len(tr.Segments))},
		{Label: "Words", Value: fmt.Sprintf("%d", tr.Metadata.WordCount)},
		{Label: "Speakers", Value: fmt.Sprintf("%d", len(tr.Speakers()))},
	}
	if tr.Language != "" {
		stats = append(stats, GateStat{Label: "Language", Value: tr.Language})
	}
	return stats
}

func editingStats(root string, m *manifest.Manifest) []GateStat {
	sidecar, err := edl.LoadSidecar(filepath.Join(root, m.Files.EDLSidecar))
	if err != nil {
		return nil
	}
	cuts := sidecar.CutEdits()
	auto, flagged := 0, 0
	for _, cut := range cuts {
		if cut.AutoApplied {
			auto++
		}
		if cut.ReviewFlag != "" {
			flagged++
		}
	}
	return []GateStat{
		{Label: "Edits proposed", Value: fmt.Sprintf("%d", len(cuts))},
		{Label: "Auto-applied", Value: fmt.Sprintf("%d", auto)},
		{Label: "Flagged for review", Value: fmt.Sprintf("%d", flagged)},
		{Label: "Time removed", Value: fmt.Sprintf("%.1fs (%.1f%%)", sidecar.TimeRemovedSeconds, sidecar.TimeRemovedPercent)},
		{Label: "Edited duration", Value: clock(sidecar.EditedDurationSeconds)},
	}
}

func mixingStats(root string, m *manifest.Manifest) []GateStat {
	var log struct {
		OutputDuration float64 `json:"output_duration_seconds"`
		Regions        int     `json:"edl_events_applied"`
		Crossfades     int     `json:"crossfades_applied"`
	}
	if err := fileutil.ReadJSON(filepath.Join(root, m.Files.MixingLog), &log); err != nil {
		return nil
	}
	return []GateStat{
		{Label: "Output duration", Value: clock(log.OutputDuration)},
		{Label: "Regions placed", Value: fmt.Sprintf("%d", log.Regions)},
		{Label: "Crossfades", Value: fmt.Sprintf("%d", log.Crossfades)},
	}
}

func masteringStats(root string, m *manifest.Manifest) []GateStat {
	var report struct {
		TargetLUFS   float64 `json:"target_lufs"`
		TruePeakDBTP float64 `json:"true_peak_limit_dbtp"`
		MP3          struct {
			DurationSeconds float64 `json:"duration_seconds"`
		} `json:"mp3"`
		WAV struct {
			DurationSeconds float64 `json:"duration_seconds"`
		} `json:"wav"`
	}
	if err := fileutil.ReadJSON(filepath.Join(root, m.Files.MasteringReport), &report); err != nil {
		return nil
	}
	return []GateStat{
		{Label: "Target loudness", Value: fmt.Sprintf("%.1f LUFS", report.TargetLUFS)},
		{Label: "True peak limit", Value: fmt.Sprintf("%.1f dBTP", report.TruePeakDBTP)},
		{Label: "MP3 duration", Value: clock(report.MP3.DurationSeconds)},
		{Label: "WAV duration", Value: clock(report.WAV.DurationSeconds)},
	}
}

// clock renders seconds as h:mm:ss, or mm:ss under an hour.
func clock(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	mm := (total / 60) % 60
	ss := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, ss)
	}
	return fmt.Sprintf("%02d:%02d", mm, ss)
}
