package editing

import (
	"path/filepath"
	"testing"

	"podpress/internal/fileutil"
)

func tangentOpts() TangentOptions {
	return TangentOptions{MinConfidence: 0.6, AutoThreshold: 0.85, MaxKeepSeconds: 30}
}

func TestLoadTangentsMissingReport(t *testing.T) {
	edits, err := LoadTangents(filepath.Join(t.TempDir(), "tangents.json"), tangentOpts())
	if err != nil {
		t.Fatalf("missing report must not fail: %v", err)
	}
	if edits != nil {
		t.Fatalf("expected no edits, got %+v", edits)
	}
}

func TestLoadTangentsFiltersProposals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tangents.json")
	report := TangentReport{
		Version: "1.0",
		Proposals: []TangentProposal{
			{StartTime: 100, EndTime: 200, Confidence: 0.9, Rationale: "off-topic hardware rant"},
			{StartTime: 300, EndTime: 380, Confidence: 0.7},
			{StartTime: 500, EndTime: 560, Confidence: 0.5, Rationale: "too weak"},
			{StartTime: 700, EndTime: 715, Confidence: 0.95, Rationale: "short aside"},
		},
	}
	if err := fileutil.WriteJSONAtomic(path, report); err != nil {
		t.Fatalf("write report: %v", err)
	}

	edits, err := LoadTangents(path, tangentOpts())
	if err != nil {
		t.Fatalf("LoadTangents failed: %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d: %+v", len(edits), edits)
	}

	if !edits[0].AutoApplied {
		t.Fatalf("confidence 0.90 should auto-apply: %+v", edits[0])
	}
	if edits[1].AutoApplied || edits[1].ReviewFlag == "" {
		t.Fatalf("confidence 0.70 should be flagged: %+v", edits[1])
	}
	if edits[1].Rationale != "off-topic digression" {
		t.Fatalf("missing rationale should default, got %q", edits[1].Rationale)
	}
}
