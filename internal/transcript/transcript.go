// Package transcript defines the transcript artifact contract produced by the
// ingestion stage's external speech-to-text collaborator and consumed by the
// editing detectors and timeline builder.
package transcript

import (
	"fmt"
	"sort"
	"strings"

	"podpress/internal/fileutil"
)

// Word is a single transcribed word with timing.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Segment is a contiguous run of speech by one speaker.
type Segment struct {
	ID          string  `json:"id"`
	Speaker     string  `json:"speaker"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Text        string  `json:"text"`
	Words       []Word  `json:"words,omitempty"`
	SourceTrack string  `json:"source_track,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// WordCount returns the number of words, preferring word-level timing data.
func (s Segment) WordCount() int {
	if len(s.Words) > 0 {
		return len(s.Words)
	}
	return len(strings.Fields(s.Text))
}

// Metadata describes how the transcript was produced.
type Metadata struct {
	TranscriptionModel string  `json:"transcription_model,omitempty"`
	DiarizationModel   string  `json:"diarization_model,omitempty"`
	WordCount          int     `json:"word_count,omitempty"`
	SegmentCount       int     `json:"segment_count,omitempty"`
	ProcessingSeconds  float64 `json:"processing_time_seconds,omitempty"`
}

// Transcript is the complete episode transcript artifact.
type Transcript struct {
	Version         string    `json:"version"`
	EpisodeID       string    `json:"episode_id"`
	DurationSeconds float64   `json:"duration_seconds"`
	Language        string    `json:"language,omitempty"`
	Segments        []Segment `json:"segments"`
	Metadata        Metadata  `json:"metadata,omitempty"`
}

// Speakers returns the distinct speaker labels in first-appearance order.
func (t *Transcript) Speakers() []string {
	seen := make(map[string]struct{})
	var speakers []string
	for _, seg := range t.Segments {
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		speakers = append(speakers, seg.Speaker)
	}
	return speakers
}

// Load reads and validates a transcript artifact.
func Load(path string) (*Transcript, error) {
	var t Transcript
	if err := fileutil.ReadJSON(path, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}
	return &t, nil
}

// Save writes the transcript artifact atomically.
func Save(path string, t *Transcript) error {
	return fileutil.WriteJSONAtomic(path, t)
}

// Validate checks segment ordering and timing invariants.
func (t *Transcript) Validate() error {
	if !sort.SliceIsSorted(t.Segments, func(i, j int) bool {
		return t.Segments[i].Start < t.Segments[j].Start
	}) {
		return fmt.Errorf("segments are not ordered by start time")
	}
	for _, seg := range t.Segments {
		if seg.End < seg.Start {
			return fmt.Errorf("segment %s ends before it starts", seg.ID)
		}
	}
	return nil
}
