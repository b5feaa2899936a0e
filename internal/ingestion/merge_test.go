package ingestion

import (
	"testing"

	"podpress/internal/services/transcriber"
)

func TestMergeTranscriptsInterleavesTracks(t *testing.T) {
	tracks := []TrackSegments{
		{
			Speaker: "Alice",
			Track:   "raw/alice.wav",
			Segments: []transcriber.Segment{
				{Text: " Welcome back to the show. ", Start: 0, End: 4},
				{Text: "Let's dig in.", Start: 10, End: 12},
			},
		},
		{
			Speaker:  "Bob",
			Track:    "raw/bob.wav",
			OffsetMs: -500,
			Segments: []transcriber.Segment{
				{Text: "Glad to be here.", Start: 5, End: 7.5},
			},
		},
	}

	merged := MergeTranscripts(tracks)
	if len(merged) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(merged))
	}

	// Bob's segment shifts by -500ms and sorts between Alice's.
	if merged[1].Speaker != "Bob" {
		t.Fatalf("expected Bob in the middle, got %+v", merged[1])
	}
	if merged[1].Start != 4.5 || merged[1].End != 7.0 {
		t.Fatalf("offset not applied: %+v", merged[1])
	}

	for i, seg := range merged {
		if seg.ID == "" {
			t.Fatalf("segment %d is missing an ID", i)
		}
		if i > 0 && merged[i-1].Start > seg.Start {
			t.Fatalf("segments not sorted at %d", i)
		}
	}
	if merged[0].Text != "Welcome back to the show." {
		t.Fatalf("text should be trimmed, got %q", merged[0].Text)
	}
	if merged[0].SourceTrack != "raw/alice.wav" {
		t.Fatalf("source track not recorded: %+v", merged[0])
	}
}

func TestMergeTranscriptsClampsNegativeStarts(t *testing.T) {
	tracks := []TrackSegments{
		{
			Speaker:  "Bob",
			Track:    "raw/bob.wav",
			OffsetMs: -2000,
			Segments: []transcriber.Segment{
				{Text: "early words", Start: 0.5, End: 3},
			},
		},
	}
	merged := MergeTranscripts(tracks)
	if merged[0].Start != 0 {
		t.Fatalf("start must clamp at 0, got %v", merged[0].Start)
	}
	if merged[0].End != 1.0 {
		t.Fatalf("end = %v, want 1.0", merged[0].End)
	}
}
