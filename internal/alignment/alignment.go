// Package alignment defines the multi-track alignment map artifact: per-track
// time offsets relative to a reference track, produced during ingestion and
// consumed by the mixing stage's region mapper.
package alignment

import (
	"fmt"

	"podpress/internal/fileutil"
)

// Track is one aligned source track.
type Track struct {
	Path        string  `json:"path"`
	OffsetMs    float64 `json:"offset_ms"`
	DurationMs  float64 `json:"duration_ms,omitempty"`
	SampleRate  int     `json:"sample_rate,omitempty"`
	Channels    int     `json:"channels,omitempty"`
	IsReference bool    `json:"is_reference"`
	Confidence  float64 `json:"alignment_confidence,omitempty"`
	Method      string  `json:"alignment_method,omitempty"`
}

// CommonTimeline is the shared timeline bounds all tracks map onto.
type CommonTimeline struct {
	StartMs float64 `json:"start_ms"`
	EndMs   float64 `json:"end_ms"`
}

// Map relates every source track to one common timeline.
type Map struct {
	Version        string         `json:"version"`
	ReferenceTrack string         `json:"reference_track"`
	Tracks         []Track        `json:"tracks"`
	CommonTimeline CommonTimeline `json:"common_timeline"`
}

// OffsetFor returns the alignment offset in milliseconds for a track path.
// Unknown tracks map to offset 0.
func (m *Map) OffsetFor(path string) float64 {
	for _, track := range m.Tracks {
		if track.Path == path {
			return track.OffsetMs
		}
	}
	return 0
}

// Validate enforces the reference-track invariant: exactly one track is the
// reference and its offset is zero.
func (m *Map) Validate() error {
	references := 0
	for _, track := range m.Tracks {
		if !track.IsReference {
			continue
		}
		references++
		if track.OffsetMs != 0 {
			return fmt.Errorf("reference track %s has non-zero offset %.1fms", track.Path, track.OffsetMs)
		}
	}
	if references != 1 {
		return fmt.Errorf("expected exactly one reference track, found %d", references)
	}
	return nil
}

// Load reads and validates an alignment map artifact.
func Load(path string) (*Map, error) {
	var m Map
	if err := fileutil.ReadJSON(path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("alignment map %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the alignment map artifact atomically.
func Save(path string, m *Map) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return fileutil.WriteJSONAtomic(path, m)
}
