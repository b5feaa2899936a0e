package edl_test

import (
	"testing"

	"podpress/internal/edl"
	"podpress/internal/transcript"
)

func segmentsUpTo(duration float64) []transcript.Segment {
	// Two alternating speakers in 60s segments.
	var segments []transcript.Segment
	speakers := []string{"Alice", "Bob"}
	start := 0.0
	for i := 0; start < duration; i++ {
		end := start + 60
		if end > duration {
			end = duration
		}
		segments = append(segments, transcript.Segment{
			ID:      segID(i),
			Speaker: speakers[i%2],
			Start:   start,
			End:     end,
			Text:    "segment text",
		})
		start = end
	}
	return segments
}

func segID(i int) string {
	return string(rune('a'+i%26)) + "-seg"
}

func cut(id string, start, end float64) edl.Edit {
	return edl.Edit{
		ID:          id,
		Kind:        edl.KindCut,
		SourceStart: start,
		SourceEnd:   end,
		Reason:      edl.ReasonSilence,
		Confidence:  edl.Confidence(1.0),
		AutoApplied: true,
	}
}

func buildOpts() edl.BuildOptions {
	return edl.BuildOptions{EpisodeID: "ep-012", FrameRate: 30, CrossfadeDurationMs: 50}
}

func TestBuildWithoutCuts(t *testing.T) {
	sidecar := edl.Build(segmentsUpTo(1800), nil, buildOpts())

	keeps := sidecar.KeepEdits()
	if len(keeps) != 1 {
		t.Fatalf("expected one keep edit, got %d", len(keeps))
	}
	keep := keeps[0]
	if keep.SourceStart != 0 || keep.SourceEnd != 1800 {
		t.Fatalf("keep should span full episode: %+v", keep)
	}
	if keep.Transition != edl.TransitionCut {
		t.Fatalf("first keep must enter with a hard cut, got %s", keep.Transition)
	}
	if len(sidecar.Transitions) != 0 {
		t.Fatalf("expected no transitions, got %d", len(sidecar.Transitions))
	}
	if sidecar.EditedDurationSeconds != 1800 || sidecar.TimeRemovedSeconds != 0 {
		t.Fatalf("unexpected durations: %+v", sidecar)
	}
	if err := sidecar.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestBuildThreeCutScenario(t *testing.T) {
	cuts := []edl.Edit{
		cut("silence-001", 300, 400),  // 100s
		cut("tangent-001", 700, 900),  // 200s
		cut("filler-001", 1200, 1250), // 50s
	}
	sidecar := edl.Build(segmentsUpTo(1800), cuts, buildOpts())

	keeps := sidecar.KeepEdits()
	if len(keeps) != 4 {
		t.Fatalf("expected 4 keep edits, got %d", len(keeps))
	}
	if len(sidecar.Transitions) != 3 {
		t.Fatalf("expected 3 transitions, got %d", len(sidecar.Transitions))
	}
	if sidecar.EditedDurationSeconds != 1450 {
		t.Fatalf("edited duration = %v, want 1450", sidecar.EditedDurationSeconds)
	}
	if sidecar.TimeRemovedSeconds != 350 {
		t.Fatalf("time removed = %v, want 350", sidecar.TimeRemovedSeconds)
	}
	if sidecar.TimeRemovedPercent != 19.4 {
		t.Fatalf("time removed percent = %v, want 19.4", sidecar.TimeRemovedPercent)
	}

	// Record positions are contiguous and gap-free.
	for i := 0; i+1 < len(keeps); i++ {
		if *keeps[i].RecordEnd != *keeps[i+1].RecordStart {
			t.Fatalf("gap between keep %d and %d: %v vs %v", i, i+1, *keeps[i].RecordEnd, *keeps[i+1].RecordStart)
		}
	}
	if *keeps[0].RecordStart != 0 {
		t.Fatalf("record timeline must start at 0, got %v", *keeps[0].RecordStart)
	}

	// Keep durations sum to the edited duration.
	sum := 0.0
	for _, keep := range keeps {
		sum += keep.Duration()
	}
	if sum != sidecar.EditedDurationSeconds {
		t.Fatalf("keep durations sum to %v, want %v", sum, sidecar.EditedDurationSeconds)
	}

	// Transition kinds: first keep hard cut, all later keeps crossfade.
	if keeps[0].Transition != edl.TransitionCut {
		t.Fatalf("first keep transition = %s", keeps[0].Transition)
	}
	for _, keep := range keeps[1:] {
		if keep.Transition != edl.TransitionCrossfade {
			t.Fatalf("later keep transition = %s", keep.Transition)
		}
	}

	if err := sidecar.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestBuildTouchingCuts(t *testing.T) {
	cuts := []edl.Edit{
		cut("silence-001", 100, 200),
		cut("silence-002", 200, 300), // touches the previous cut
	}
	sidecar := edl.Build(segmentsUpTo(600), cuts, buildOpts())

	keeps := sidecar.KeepEdits()
	if len(keeps) != 2 {
		t.Fatalf("touching cuts must not emit an empty keep, got %d keeps", len(keeps))
	}
	if keeps[1].SourceStart != 300 {
		t.Fatalf("second keep should resume at 300, got %v", keeps[1].SourceStart)
	}
	if sidecar.EditedDurationSeconds != 400 {
		t.Fatalf("edited duration = %v, want 400", sidecar.EditedDurationSeconds)
	}
}

func TestBuildCutAtStartAndEnd(t *testing.T) {
	cuts := []edl.Edit{
		cut("silence-001", 0, 30),
		cut("silence-002", 570, 600),
	}
	sidecar := edl.Build(segmentsUpTo(600), cuts, buildOpts())

	keeps := sidecar.KeepEdits()
	if len(keeps) != 1 {
		t.Fatalf("expected single middle keep, got %d", len(keeps))
	}
	if keeps[0].SourceStart != 30 || keeps[0].SourceEnd != 570 {
		t.Fatalf("unexpected keep bounds: %+v", keeps[0])
	}
	if *keeps[0].RecordStart != 0 {
		t.Fatalf("record timeline must start at 0 even with a leading cut")
	}
}

func TestBuildUnsortedCuts(t *testing.T) {
	cuts := []edl.Edit{
		cut("b", 400, 450),
		cut("a", 100, 150),
	}
	sidecar := edl.Build(segmentsUpTo(600), cuts, buildOpts())
	if err := sidecar.Validate(); err != nil {
		t.Fatalf("builder must sort cuts before walking: %v", err)
	}
	if sidecar.EditedDurationSeconds != 500 {
		t.Fatalf("edited duration = %v, want 500", sidecar.EditedDurationSeconds)
	}
}

func TestBuildAnnotatesSpeakers(t *testing.T) {
	segments := []transcript.Segment{
		{ID: "s1", Speaker: "Alice", Start: 0, End: 50, Text: "hello"},
		{ID: "s2", Speaker: "Bob", Start: 50, End: 100, Text: "hi"},
		{ID: "s3", Speaker: "Alice", Start: 150, End: 200, Text: "anyway"},
	}
	cuts := []edl.Edit{cut("silence-001", 100, 150)}
	sidecar := edl.Build(segments, cuts, buildOpts())

	keeps := sidecar.KeepEdits()
	if len(keeps) != 2 {
		t.Fatalf("expected 2 keeps, got %d", len(keeps))
	}
	if keeps[0].Speaker != "Alice" {
		t.Fatalf("first keep speaker = %q", keeps[0].Speaker)
	}
	if got := keeps[0].Segments; len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Fatalf("first keep segments = %v", got)
	}
	if keeps[0].Description == "" {
		t.Fatal("expected human-readable description")
	}
}
