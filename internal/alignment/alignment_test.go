package alignment_test

import (
	"path/filepath"
	"testing"

	"podpress/internal/alignment"
)

func twoTrackMap() *alignment.Map {
	return &alignment.Map{
		Version:        "1.0",
		ReferenceTrack: "tracks/alice.wav",
		Tracks: []alignment.Track{
			{Path: "tracks/alice.wav", OffsetMs: 0, IsReference: true},
			{Path: "tracks/bob.wav", OffsetMs: -125.5},
		},
		CommonTimeline: alignment.CommonTimeline{EndMs: 1_800_000},
	}
}

func TestValidateReferenceInvariant(t *testing.T) {
	m := twoTrackMap()
	if err := m.Validate(); err != nil {
		t.Fatalf("valid map rejected: %v", err)
	}

	m.Tracks[0].OffsetMs = 10
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for reference with non-zero offset")
	}

	m = twoTrackMap()
	m.Tracks[1].IsReference = true
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for two reference tracks")
	}

	m = twoTrackMap()
	m.Tracks[0].IsReference = false
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for missing reference track")
	}
}

func TestOffsetFor(t *testing.T) {
	m := twoTrackMap()
	if got := m.OffsetFor("tracks/bob.wav"); got != -125.5 {
		t.Fatalf("OffsetFor(bob) = %v, want -125.5", got)
	}
	if got := m.OffsetFor("tracks/unknown.wav"); got != 0 {
		t.Fatalf("unknown track should map to 0, got %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alignment.json")
	m := twoTrackMap()
	if err := alignment.Save(path, m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := alignment.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OffsetFor("tracks/bob.wav") != -125.5 {
		t.Fatalf("offset lost in round trip: %#v", loaded.Tracks)
	}
}
