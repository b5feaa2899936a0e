package edl

import (
	"fmt"

	"podpress/internal/fileutil"
)

// SidecarVersion is the schema version written into new sidecars.
const SidecarVersion = "1.0"

// Sidecar is the computed timeline for one episode: the full edit list,
// transitions, and duration accounting. It round-trips losslessly through
// JSON so the mixing stage and chapter generation read exactly what the
// editing stage wrote.
type Sidecar struct {
	Version                 string       `json:"version"`
	EpisodeID               string       `json:"episode_id"`
	OriginalDurationSeconds float64      `json:"original_duration_seconds"`
	EditedDurationSeconds   float64      `json:"edited_duration_seconds"`
	TimeRemovedSeconds      float64      `json:"time_removed_seconds"`
	TimeRemovedPercent      float64      `json:"time_removed_percent"`
	FrameRate               int          `json:"edl_frame_rate"`
	Mode                    string       `json:"edl_mode"`
	Edits                   []Edit       `json:"edits"`
	Transitions             []Transition `json:"transitions"`
}

// KeepEdits returns the preserved intervals in list order.
func (s *Sidecar) KeepEdits() []Edit {
	var keeps []Edit
	for _, edit := range s.Edits {
		if edit.Kind == KindKeep {
			keeps = append(keeps, edit)
		}
	}
	return keeps
}

// CutEdits returns the removed intervals in list order.
func (s *Sidecar) CutEdits() []Edit {
	var cuts []Edit
	for _, edit := range s.Edits {
		if edit.Kind == KindCut {
			cuts = append(cuts, edit)
		}
	}
	return cuts
}

// Validate enforces the timeline invariants: keep edits tile the output
// timeline contiguously from zero, cuts carry no record time, and the
// transition count matches the keep count.
func (s *Sidecar) Validate() error {
	keeps := s.KeepEdits()
	cursor := 0.0
	for _, keep := range keeps {
		if keep.RecordStart == nil || keep.RecordEnd == nil {
			return fmt.Errorf("keep edit %s is missing record time", keep.ID)
		}
		if !closeEnough(*keep.RecordStart, cursor) {
			return fmt.Errorf("keep edit %s starts at %.3f, expected %.3f (gap or overlap)", keep.ID, *keep.RecordStart, cursor)
		}
		cursor = *keep.RecordEnd
	}
	if !closeEnough(cursor, s.EditedDurationSeconds) {
		return fmt.Errorf("edited duration %.3f does not match final record position %.3f", s.EditedDurationSeconds, cursor)
	}
	for _, cut := range s.CutEdits() {
		if cut.RecordStart != nil || cut.RecordEnd != nil {
			return fmt.Errorf("cut edit %s carries record time", cut.ID)
		}
		if cut.SourceEnd < cut.SourceStart {
			return fmt.Errorf("cut edit %s ends before it starts", cut.ID)
		}
	}
	if want := max(0, len(keeps)-1); len(s.Transitions) != want {
		return fmt.Errorf("expected %d transitions for %d keep edits, found %d", want, len(keeps), len(s.Transitions))
	}
	return nil
}

// LoadSidecar reads and validates a sidecar artifact.
func LoadSidecar(path string) (*Sidecar, error) {
	var s Sidecar
	if err := fileutil.ReadJSON(path, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("edl sidecar %s: %w", path, err)
	}
	return &s, nil
}

// SaveSidecar writes the sidecar artifact atomically.
func SaveSidecar(path string, s *Sidecar) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return fileutil.WriteJSONAtomic(path, s)
}

const timelineEpsilon = 1e-6

func closeEnough(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= timelineEpsilon
}
