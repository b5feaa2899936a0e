package editing

import (
	"math"
	"testing"

	"podpress/internal/transcript"
)

func silenceOpts() SilenceOptions {
	return SilenceOptions{MinDurationMs: 800, KeepMs: 300, SpeakerTurnPauseMs: 500}
}

func TestDetectSilencesSameSpeaker(t *testing.T) {
	segments := []transcript.Segment{
		seg("s1", "Alice", 0, 10, "first thought"),
		seg("s2", "Alice", 12, 20, "second thought"),
	}

	edits := DetectSilences(segments, silenceOpts())
	if len(edits) != 1 {
		t.Fatalf("expected 1 silence cut, got %d", len(edits))
	}
	edit := edits[0]
	if math.Abs(edit.SourceStart-10.3) > 1e-9 || edit.SourceEnd != 12 {
		t.Fatalf("same-speaker gap should keep 300ms: %+v", edit)
	}
	if !edit.AutoApplied || edit.ConfidenceValue() != 1.0 {
		t.Fatalf("silence cuts are objective: %+v", edit)
	}
}

func TestDetectSilencesSpeakerTurnKeepsLongerPause(t *testing.T) {
	segments := []transcript.Segment{
		seg("s1", "Alice", 0, 10, "handing over"),
		seg("s2", "Bob", 12, 20, "taking over"),
	}

	edits := DetectSilences(segments, silenceOpts())
	if len(edits) != 1 {
		t.Fatalf("expected 1 silence cut, got %d", len(edits))
	}
	if got := edits[0].SourceStart; math.Abs(got-10.5) > 1e-9 {
		t.Fatalf("speaker turn should keep 500ms, trim starts at %v", got)
	}
}

func TestDetectSilencesKeepsShortGaps(t *testing.T) {
	segments := []transcript.Segment{
		seg("s1", "Alice", 0, 10, "a"),
		seg("s2", "Alice", 10.5, 20, "b"),
	}
	if edits := DetectSilences(segments, silenceOpts()); len(edits) != 0 {
		t.Fatalf("gaps under the minimum must be kept, got %+v", edits)
	}
}
