package editing

import (
	"fmt"

	"podpress/internal/edl"
	"podpress/internal/fileutil"
)

// Topic is one discussion topic from the episode context document.
type Topic struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time,omitempty"`
}

// ContextDocument summarizes the episode's structure. It is produced during
// ingestion review and drives chapter marker generation; when absent the
// stage runs in degraded mode and only emits the introduction chapter.
type ContextDocument struct {
	Version   string  `json:"version"`
	EpisodeID string  `json:"episode_id,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Topics    []Topic `json:"topics"`
}

// LoadContext reads the optional context document. A missing file returns
// (nil, nil).
func LoadContext(path string) (*ContextDocument, error) {
	if !fileutil.Exists(path) {
		return nil, nil
	}
	var doc ContextDocument
	if err := fileutil.ReadJSON(path, &doc); err != nil {
		return nil, fmt.Errorf("context document %s: %w", path, err)
	}
	return &doc, nil
}

// Markers converts the topic list into chapter markers on the original
// timeline.
func (d *ContextDocument) Markers() []edl.Marker {
	if d == nil {
		return nil
	}
	markers := make([]edl.Marker, 0, len(d.Topics))
	for _, topic := range d.Topics {
		markers = append(markers, edl.Marker{Title: topic.Name, TimeSeconds: topic.StartTime})
	}
	return markers
}
