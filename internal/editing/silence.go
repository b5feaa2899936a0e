package editing

import (
	"fmt"

	"podpress/internal/edl"
	"podpress/internal/transcript"
)

// SilenceOptions tunes the silence trimmer. All durations are in
// milliseconds.
type SilenceOptions struct {
	// MinDurationMs is the shortest gap worth trimming at all.
	MinDurationMs int
	// KeepMs is the pause left in place when the same speaker continues.
	KeepMs int
	// SpeakerTurnPauseMs is the longer pause left between different speakers.
	SpeakerTurnPauseMs int
}

// DetectSilences proposes cuts for extended gaps between transcript segments.
// A gap is never removed entirely: a natural pause of KeepMs (same speaker) or
// SpeakerTurnPauseMs (speaker change) is preserved and only the excess is cut.
// Silence is an objective measurement, so every proposal has confidence 1.0
// and is auto-applied.
func DetectSilences(segments []transcript.Segment, opts SilenceOptions) []edl.Edit {
	var edits []edl.Edit
	counter := 0

	for i := 0; i+1 < len(segments); i++ {
		gapStart := segments[i].End
		gapEnd := segments[i+1].Start
		gapMs := (gapEnd - gapStart) * 1000
		if gapMs <= float64(opts.MinDurationMs) {
			continue
		}

		betweenSpeakers := segments[i].Speaker != segments[i+1].Speaker
		targetMs := opts.KeepMs
		if betweenSpeakers {
			targetMs = opts.SpeakerTurnPauseMs
		}

		trimStart := gapStart + float64(targetMs)/1000
		if trimStart >= gapEnd {
			continue
		}

		placement := "same speaker"
		if betweenSpeakers {
			placement = "between speakers"
		}

		counter++
		edits = append(edits, edl.Edit{
			ID:          fmt.Sprintf("silence-%03d", counter),
			Kind:        edl.KindCut,
			SourceTrack: segments[i].SourceTrack,
			SourceStart: trimStart,
			SourceEnd:   gapEnd,
			Reason:      edl.ReasonSilence,
			Confidence:  edl.Confidence(1.0),
			Rationale:   fmt.Sprintf("silence trimmed: %.0fms to %dms (%s)", gapMs, targetMs, placement),
			AutoApplied: true,
		})
	}
	return edits
}
