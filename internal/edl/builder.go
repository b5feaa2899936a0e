package edl

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"podpress/internal/transcript"
)

// BuildOptions controls timeline construction.
type BuildOptions struct {
	EpisodeID           string
	FrameRate           int
	CrossfadeDurationMs int
}

// Build converts a cut set into the complete keep/cut timeline.
//
// Cuts are sorted by source start and walked from source time zero. Each gap
// between consecutive cuts becomes one keep edit with a contiguous record-time
// position. The first keep edit enters with a hard cut (there is nothing
// before it to blend from); every later keep enters with a crossfade.
//
// Overlapping cuts must already be coalesced by the aggregator; touching cuts
// are handled here without emitting empty keep edits.
func Build(segments []transcript.Segment, cuts []Edit, opts BuildOptions) *Sidecar {
	totalDuration := 0.0
	if len(segments) > 0 {
		totalDuration = segments[len(segments)-1].End
	}

	sorted := make([]Edit, len(cuts))
	copy(sorted, cuts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourceStart < sorted[j].SourceStart
	})

	var keeps []Edit
	cursor := 0.0
	recordPos := 0.0
	counter := 0

	emitKeep := func(start, end float64) {
		duration := end - start
		counter++
		regionSegments := segmentsWithin(segments, start, end)
		transition := TransitionCrossfade
		if counter == 1 {
			transition = TransitionCut
		}
		recordStart := recordPos
		recordEnd := recordPos + duration
		keeps = append(keeps, Edit{
			ID:          fmt.Sprintf("keep-%03d", counter),
			Kind:        KindKeep,
			SourceStart: start,
			SourceEnd:   end,
			RecordStart: &recordStart,
			RecordEnd:   &recordEnd,
			Transition:  transition,
			Speaker:     firstSpeaker(regionSegments),
			Description: summarizeRegion(regionSegments),
			Segments:    segmentIDs(regionSegments),
		})
		recordPos = recordEnd
	}

	for _, cut := range sorted {
		if cut.SourceStart > cursor {
			emitKeep(cursor, cut.SourceStart)
		}
		if cut.SourceEnd > cursor {
			cursor = cut.SourceEnd
		}
	}
	if cursor < totalDuration {
		emitKeep(cursor, totalDuration)
	}

	transitions := make([]Transition, 0, max(0, len(keeps)-1))
	for i := 0; i+1 < len(keeps); i++ {
		transitions = append(transitions, Transition{
			Between:    []string{keeps[i].ID, keeps[i+1].ID},
			Kind:       TransitionCrossfade,
			DurationMs: opts.CrossfadeDurationMs,
		})
	}

	editedDuration := recordPos
	timeRemoved := totalDuration - editedDuration
	removedPercent := 0.0
	if totalDuration > 0 {
		removedPercent = math.Round(timeRemoved/totalDuration*1000) / 10
	}

	edits := make([]Edit, 0, len(keeps)+len(sorted))
	edits = append(edits, keeps...)
	edits = append(edits, sorted...)

	return &Sidecar{
		Version:                 SidecarVersion,
		EpisodeID:               opts.EpisodeID,
		OriginalDurationSeconds: totalDuration,
		EditedDurationSeconds:   editedDuration,
		TimeRemovedSeconds:      timeRemoved,
		TimeRemovedPercent:      removedPercent,
		FrameRate:               opts.FrameRate,
		Mode:                    "NON-DROP FRAME",
		Edits:                   edits,
		Transitions:             transitions,
	}
}

func segmentsWithin(segments []transcript.Segment, start, end float64) []transcript.Segment {
	var within []transcript.Segment
	for _, seg := range segments {
		if seg.Start >= start && seg.End <= end {
			within = append(within, seg)
		}
	}
	return within
}

func firstSpeaker(segments []transcript.Segment) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0].Speaker
}

func segmentIDs(segments []transcript.Segment) []string {
	if len(segments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(segments))
	for _, seg := range segments {
		ids = append(ids, seg.ID)
	}
	return ids
}

func summarizeRegion(segments []transcript.Segment) string {
	if len(segments) == 0 {
		return ""
	}
	seen := make(map[string]struct{})
	var speakers []string
	for _, seg := range segments {
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		speakers = append(speakers, seg.Speaker)
	}
	sort.Strings(speakers)
	duration := segments[len(segments)-1].End - segments[0].Start
	return fmt.Sprintf("%s (%.0fs)", strings.Join(speakers, ", "), duration)
}
