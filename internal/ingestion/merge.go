package ingestion

import (
	"fmt"
	"sort"
	"strings"

	"podpress/internal/services/transcriber"
	"podpress/internal/transcript"
)

// TrackSegments is the transcription result for one source track.
type TrackSegments struct {
	Speaker  string
	Track    string
	OffsetMs float64
	Segments []transcriber.Segment
}

// MergeTranscripts interleaves per-track segments into a single timeline.
// Each track's times are shifted by its alignment offset, the result is
// sorted by start time, and segments receive stable sequential IDs.
func MergeTranscripts(tracks []TrackSegments) []transcript.Segment {
	var merged []transcript.Segment
	for _, track := range tracks {
		offset := track.OffsetMs / 1000
		for _, seg := range track.Segments {
			start := seg.Start + offset
			end := seg.End + offset
			if start < 0 {
				start = 0
			}
			if end < start {
				end = start
			}

			words := make([]transcript.Word, 0, len(seg.Words))
			for _, w := range seg.Words {
				words = append(words, transcript.Word{
					Word:       w.Word,
					Start:      w.Start + offset,
					End:        w.End + offset,
					Confidence: w.Score,
				})
			}

			merged = append(merged, transcript.Segment{
				Speaker:     track.Speaker,
				Start:       start,
				End:         end,
				Text:        strings.TrimSpace(seg.Text),
				Words:       words,
				SourceTrack: track.Track,
			})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})
	for i := range merged {
		merged[i].ID = fmt.Sprintf("seg-%04d", i+1)
	}
	return merged
}
