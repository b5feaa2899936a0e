package editing

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"podpress/internal/edl"
	"podpress/internal/transcript"
)

// fillerPattern pairs a compiled expression with the base confidence assigned
// to segments it dominates. Context-sensitive words like "like" and "so" only
// count when followed by punctuation, otherwise they are usually meaningful.
type fillerPattern struct {
	re         *regexp.Regexp
	confidence float64
}

var fillerPatterns = []fillerPattern{
	{regexp.MustCompile(`\bum+\b`), 0.95},
	{regexp.MustCompile(`\buh+\b`), 0.95},
	{regexp.MustCompile(`\bah+\b`), 0.90},
	{regexp.MustCompile(`\ber+m?\b`), 0.90},
	{regexp.MustCompile(`\byou know\b`), 0.80},
	{regexp.MustCompile(`\blike\s*,`), 0.80},
	{regexp.MustCompile(`\bbasically\b`), 0.75},
	{regexp.MustCompile(`\bactually\b`), 0.70},
	{regexp.MustCompile(`\bso+\s*,`), 0.70},
	{regexp.MustCompile(`\bright\s*[,?]`), 0.70},
	{regexp.MustCompile(`\bi mean\b`), 0.80},
}

// minFillerRatio is the fraction of a segment's text that must match a filler
// pattern before the segment is proposed as a cut. Below this the filler sits
// inside meaningful speech and cutting the whole segment would lose content.
const minFillerRatio = 0.3

// DetectFillers proposes cut edits for segments dominated by filler words.
// Proposals at or above sensitivity are auto-applied; the rest carry a review
// flag for the editing gate.
func DetectFillers(segments []transcript.Segment, sensitivity float64) []edl.Edit {
	var edits []edl.Edit
	counter := 0

	for _, seg := range segments {
		text := strings.ToLower(seg.Text)
		for _, pattern := range fillerPatterns {
			matches := pattern.re.FindAllString(text, -1)
			if len(matches) == 0 {
				continue
			}

			matched := 0
			for _, m := range matches {
				matched += len(m)
			}
			ratio := float64(matched) / math.Max(float64(len(text)), 1)
			if ratio < minFillerRatio {
				continue
			}

			confidence := math.Round(pattern.confidence*math.Min(ratio*2, 1)*100) / 100
			auto := confidence >= sensitivity

			counter++
			edit := edl.Edit{
				ID:          fmt.Sprintf("filler-%03d", counter),
				Kind:        edl.KindCut,
				SourceTrack: seg.SourceTrack,
				SourceStart: seg.Start,
				SourceEnd:   seg.End,
				Reason:      edl.ReasonFiller,
				Confidence:  edl.Confidence(confidence),
				Rationale:   fmt.Sprintf("filler words detected: %q", truncateText(seg.Text, 80)),
				Segments:    []string{seg.ID},
				AutoApplied: auto,
			}
			if !auto {
				edit.ReviewFlag = fmt.Sprintf("confidence %.2f below threshold %.2f", confidence, sensitivity)
			}
			edits = append(edits, edit)
		}
	}
	return edits
}

// falseStartConfidence applies to every false-start proposal; the heuristic is
// structural rather than statistical, so all hits score the same.
const falseStartConfidence = 0.85

// DetectFalseStarts proposes cuts for short abandoned utterances: a speaker
// says at most three words, pauses longer than minGapMs, and then resumes.
func DetectFalseStarts(segments []transcript.Segment, minGapMs float64) []edl.Edit {
	var edits []edl.Edit
	counter := 0

	for i := 0; i+1 < len(segments); i++ {
		seg, next := segments[i], segments[i+1]
		if seg.Speaker != next.Speaker {
			continue
		}
		if seg.WordCount() > 3 {
			continue
		}
		gapMs := (next.Start - seg.End) * 1000
		if gapMs < minGapMs {
			continue
		}

		counter++
		edits = append(edits, edl.Edit{
			ID:          fmt.Sprintf("false-start-%03d", counter),
			Kind:        edl.KindCut,
			SourceTrack: seg.SourceTrack,
			SourceStart: seg.Start,
			SourceEnd:   seg.End,
			Reason:      edl.ReasonFalseStart,
			Confidence:  edl.Confidence(falseStartConfidence),
			Rationale:   fmt.Sprintf("false start (%d words, %.0fms gap): %q", seg.WordCount(), gapMs, seg.Text),
			Segments:    []string{seg.ID},
			AutoApplied: true,
		})
	}
	return edits
}

func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
