package manifest

import (
	"fmt"
	"strings"
	"time"

	"podpress/internal/config"
)

// ManifestVersion is written into every new manifest for forward compatibility.
const ManifestVersion = "1.0"

// Participant is one speaker in the episode with a dedicated source track.
type Participant struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"` // host | co-host | guest
	Track string `yaml:"track"`
}

// Project holds episode metadata.
type Project struct {
	Name          string        `yaml:"name"`
	EpisodeNumber int           `yaml:"episode_number"`
	Title         string        `yaml:"title"`
	RecordingDate string        `yaml:"recording_date"`
	Participants  []Participant `yaml:"participants"`
}

// SourceTrack captures probed metadata about one recorded track.
type SourceTrack struct {
	Path            string  `yaml:"path"`
	DurationSeconds float64 `yaml:"duration_seconds,omitempty"`
	SampleRate      int     `yaml:"sample_rate,omitempty"`
	Channels        int     `yaml:"channels,omitempty"`
	Format          string  `yaml:"format,omitempty"`
}

// Files is the artifact path table. All paths are relative to the project root.
type Files struct {
	SourceTracks    []SourceTrack `yaml:"source_tracks,omitempty"`
	Transcript      string        `yaml:"transcript"`
	AlignmentMap    string        `yaml:"alignment_map"`
	ContextDocument string        `yaml:"context_document"`
	TangentReport   string        `yaml:"tangent_report"`
	EDL             string        `yaml:"edl"`
	EDLSidecar      string        `yaml:"edl_sidecar"`
	EditRationale   string        `yaml:"edit_rationale"`
	Chapters        string        `yaml:"chapters"`
	MixedAudio      string        `yaml:"mixed_audio"`
	MixingLog       string        `yaml:"mixing_log"`
	MasteredMP3     string        `yaml:"mastered_mp3"`
	MasteredWAV     string        `yaml:"mastered_wav"`
	MasteringReport string        `yaml:"mastering_report"`
}

// DefaultFiles returns the conventional artifact layout for a project.
func DefaultFiles() Files {
	return Files{
		Transcript:      "artifacts/ingestion/transcript.json",
		AlignmentMap:    "artifacts/ingestion/alignment.json",
		ContextDocument: "artifacts/ingestion/context.json",
		TangentReport:   "artifacts/editing/tangents.json",
		EDL:             "artifacts/editing/edit-list.edl",
		EDLSidecar:      "artifacts/editing/edit-list.json",
		EditRationale:   "artifacts/editing/rationale.json",
		Chapters:        "artifacts/editing/chapters.json",
		MixedAudio:      "artifacts/mixing/mixed.wav",
		MixingLog:       "artifacts/mixing/mixing-log.json",
		MasteredMP3:     "artifacts/mastering/episode.mp3",
		MasteredWAV:     "artifacts/mastering/episode.wav",
		MasteringReport: "artifacts/mastering/metadata.json",
	}
}

// IngestionConfig controls transcription and alignment.
type IngestionConfig struct {
	TranscriptionModel    string `yaml:"transcription_model"`
	TranscriptionLanguage string `yaml:"transcription_language,omitempty"`
}

// EditingConfig controls detector sensitivity and EDL generation.
type EditingConfig struct {
	FillerSensitivity    float64 `yaml:"filler_sensitivity"`
	MinSilenceDurationMs int     `yaml:"min_silence_duration_ms"`
	SilenceKeepMs        int     `yaml:"silence_keep_ms"`
	SpeakerTurnPauseMs   int     `yaml:"speaker_turn_pause_ms"`
	DetectFalseStarts    bool    `yaml:"detect_false_starts"`
	TangentMinConfidence float64 `yaml:"tangent_min_confidence"`
	TangentAutoThreshold float64 `yaml:"tangent_auto_threshold"`
	MaxTangentKeepSec    int     `yaml:"max_tangent_keep_seconds"`
	CrossfadeDurationMs  int     `yaml:"crossfade_duration_ms"`
	EDLFrameRate         int     `yaml:"edl_frame_rate"`
}

// MixingConfig controls the rendered mixdown.
type MixingConfig struct {
	OutputSampleRate int `yaml:"output_sample_rate"`
	OutputBitDepth   int `yaml:"output_bit_depth"`
}

// MasteringConfig controls loudness normalization and encoding.
type MasteringConfig struct {
	TargetLUFS        float64 `yaml:"target_lufs"`
	TruePeakLimitDBTP float64 `yaml:"true_peak_limit_dbtp"`
	LoudnormLRA       float64 `yaml:"loudnorm_lra"`
	MP3BitrateKbps    int     `yaml:"mp3_bitrate_kbps"`
	MP3SampleRate     int     `yaml:"mp3_sample_rate"`
}

// ModuleConfig gathers per-stage processing configuration.
type ModuleConfig struct {
	Ingestion IngestionConfig `yaml:"ingestion"`
	Editing   EditingConfig   `yaml:"editing"`
	Mixing    MixingConfig    `yaml:"mixing"`
	Mastering MasteringConfig `yaml:"mastering"`
}

// Manifest is the root aggregate for one episode project.
type Manifest struct {
	Version  string       `yaml:"version"`
	Project  Project      `yaml:"project"`
	Files    Files        `yaml:"files"`
	Pipeline Pipeline     `yaml:"pipeline"`
	Config   ModuleConfig `yaml:"config"`
}

// New builds a manifest for a fresh project, seeding module configuration from
// the application config.
func New(project Project, cfg *config.Config) *Manifest {
	m := &Manifest{
		Version:  ManifestVersion,
		Project:  project,
		Files:    DefaultFiles(),
		Pipeline: NewPipeline(),
	}
	if cfg != nil {
		m.Config = ModuleConfig{
			Ingestion: IngestionConfig{
				TranscriptionModel:    cfg.Ingestion.TranscriptionModel,
				TranscriptionLanguage: cfg.Ingestion.TranscriptionLanguage,
			},
			Editing: EditingConfig{
				FillerSensitivity:    cfg.Editing.FillerSensitivity,
				MinSilenceDurationMs: cfg.Editing.MinSilenceDurationMs,
				SilenceKeepMs:        cfg.Editing.SilenceKeepMs,
				SpeakerTurnPauseMs:   cfg.Editing.SpeakerTurnPauseMs,
				DetectFalseStarts:    cfg.Editing.DetectFalseStarts,
				TangentMinConfidence: cfg.Editing.TangentMinConfidence,
				TangentAutoThreshold: cfg.Editing.TangentAutoThreshold,
				MaxTangentKeepSec:    cfg.Editing.MaxTangentKeepSec,
				CrossfadeDurationMs:  cfg.Editing.CrossfadeDurationMs,
				EDLFrameRate:         cfg.Editing.EDLFrameRate,
			},
			Mixing: MixingConfig{
				OutputSampleRate: cfg.Mixing.OutputSampleRate,
				OutputBitDepth:   cfg.Mixing.OutputBitDepth,
			},
			Mastering: MasteringConfig{
				TargetLUFS:        cfg.Mastering.TargetLUFS,
				TruePeakLimitDBTP: cfg.Mastering.TruePeakLimitDBTP,
				LoudnormLRA:       cfg.Mastering.LoudnormLRA,
				MP3BitrateKbps:    cfg.Mastering.MP3BitrateKbps,
				MP3SampleRate:     cfg.Mastering.MP3SampleRate,
			},
		}
	}
	return m
}

// EpisodeID derives the stable episode identifier used across artifacts.
func (m *Manifest) EpisodeID() string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(m.Project.Name), " ", "-"))
	return fmt.Sprintf("%s-ep%d", slug, m.Project.EpisodeNumber)
}

// TrackForSpeaker resolves a participant name to their source track path.
func (m *Manifest) TrackForSpeaker(speaker string) (string, bool) {
	for _, p := range m.Project.Participants {
		if strings.EqualFold(p.Name, speaker) {
			return p.Track, true
		}
	}
	return "", false
}

// SpeakerTracks returns the full speaker name to track path table.
func (m *Manifest) SpeakerTracks() map[string]string {
	table := make(map[string]string, len(m.Project.Participants))
	for _, p := range m.Project.Participants {
		table[p.Name] = p.Track
	}
	return table
}

// Validate checks structural invariants before the manifest is trusted.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("manifest version missing")
	}
	if err := m.Pipeline.validate(); err != nil {
		return err
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
