package editing

import (
	"strings"
	"testing"

	"podpress/internal/edl"
)

func proposal(id string, start, end, confidence float64, auto bool) edl.Edit {
	edit := edl.Edit{
		ID:          id,
		Kind:        edl.KindCut,
		SourceStart: start,
		SourceEnd:   end,
		Reason:      edl.ReasonSilence,
		Confidence:  edl.Confidence(confidence),
		AutoApplied: auto,
	}
	if !auto {
		edit.ReviewFlag = "low confidence"
	}
	return edit
}

func TestCapAutoCutsDemotesWeakestFirst(t *testing.T) {
	// 1100s of auto cuts on an 1800s episode; the budget is 900s.
	cuts := []edl.Edit{
		proposal("silence-001", 0, 500, 1.0, true),
		proposal("tangent-001", 600, 1000, 0.9, true),
		proposal("filler-001", 1100, 1300, 0.7, true),
	}

	demoted := CapAutoCuts(cuts, 1800)
	if demoted != 1 {
		t.Fatalf("demoted = %d, want 1", demoted)
	}

	autoTotal := 0.0
	for _, cut := range cuts {
		if cut.AutoApplied {
			autoTotal += cut.Duration()
		}
	}
	if autoTotal > 900 {
		t.Fatalf("auto total %.0fs still exceeds the 900s budget", autoTotal)
	}

	weakest := cuts[2]
	if weakest.AutoApplied {
		t.Fatal("lowest-confidence cut should have been demoted")
	}
	if weakest.ReviewFlag == "" {
		t.Fatal("demoted cut must carry a review flag")
	}
	for _, cut := range cuts[:2] {
		if !cut.AutoApplied {
			t.Fatalf("higher-confidence cut %s should stay auto-applied", cut.ID)
		}
	}
}

func TestCapAutoCutsUnderBudgetIsNoop(t *testing.T) {
	cuts := []edl.Edit{
		proposal("silence-001", 0, 100, 1.0, true),
		proposal("filler-001", 200, 250, 0.7, true),
	}
	if demoted := CapAutoCuts(cuts, 1800); demoted != 0 {
		t.Fatalf("demoted = %d, want 0", demoted)
	}
	for _, cut := range cuts {
		if !cut.AutoApplied || strings.Contains(cut.ReviewFlag, "budget") {
			t.Fatalf("cut %s should be untouched: %+v", cut.ID, cut)
		}
	}
}

func TestCapAutoCutsIgnoresFlaggedEdits(t *testing.T) {
	// Only auto-applied time counts against the budget.
	cuts := []edl.Edit{
		proposal("silence-001", 0, 800, 1.0, true),
		proposal("tangent-001", 900, 1700, 0.7, false),
	}
	if demoted := CapAutoCuts(cuts, 1800); demoted != 0 {
		t.Fatalf("demoted = %d, want 0", demoted)
	}
}

func TestCoalesceMergesOverlaps(t *testing.T) {
	cuts := []edl.Edit{
		proposal("silence-001", 100, 200, 0.9, true),
		proposal("tangent-001", 150, 250, 0.8, false),
	}

	merged := Coalesce(cuts)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged cut, got %d", len(merged))
	}
	got := merged[0]
	if got.ID != "silence-001" {
		t.Fatalf("earlier cut should keep its identity, got %s", got.ID)
	}
	if got.SourceStart != 100 || got.SourceEnd != 250 {
		t.Fatalf("merged bounds = [%v, %v], want [100, 250]", got.SourceStart, got.SourceEnd)
	}
	if got.ConfidenceValue() != 0.8 {
		t.Fatalf("merged confidence = %v, want the weaker 0.8", got.ConfidenceValue())
	}
	if got.AutoApplied {
		t.Fatal("merging with a flagged cut must not stay auto-applied")
	}
	if got.ReviewFlag == "" {
		t.Fatal("review flag should survive the merge")
	}
	if !strings.Contains(got.Rationale, "tangent-001") {
		t.Fatalf("rationale should mention the absorbed cut: %q", got.Rationale)
	}
}

func TestCoalesceLeavesTouchingCutsAlone(t *testing.T) {
	cuts := []edl.Edit{
		proposal("silence-001", 100, 200, 1.0, true),
		proposal("silence-002", 200, 300, 1.0, true),
	}
	if merged := Coalesce(cuts); len(merged) != 2 {
		t.Fatalf("touching cuts must stay separate, got %d", len(merged))
	}
}

func TestCoalesceSortsBeforeMerging(t *testing.T) {
	cuts := []edl.Edit{
		proposal("b", 400, 500, 1.0, true),
		proposal("a", 100, 450, 1.0, true),
	}
	merged := Coalesce(cuts)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged cut, got %d", len(merged))
	}
	if merged[0].ID != "a" || merged[0].SourceEnd != 500 {
		t.Fatalf("unexpected merge result: %+v", merged[0])
	}
}
