package mixing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podpress/internal/alignment"
	"podpress/internal/config"
	"podpress/internal/edl"
	"podpress/internal/fileutil"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services/ffmpeg"
	"podpress/internal/transcript"
)

func stubClient(t *testing.T, calls *[]string) *ffmpeg.Client {
	t.Helper()
	client := ffmpeg.New("ffmpeg", "ffprobe")
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, name+" "+strings.Join(args, " "))
		if name == "ffprobe" {
			return []byte(`{
				"streams": [{"codec_type": "audio", "sample_rate": "48000", "channels": 1}],
				"format": {"duration": "18.0", "format_name": "wav"}
			}`), nil
		}
		dest := args[len(args)-1]
		return nil, os.WriteFile(dest, []byte("audio"), 0o644)
	})
	return client
}

// testProject lays out a two-speaker episode with one filler cut between the
// speakers and a quarter-second negative offset on the second track.
func testProject(t *testing.T, root string) *manifest.Manifest {
	t.Helper()
	cfg := config.Default()
	m := manifest.New(manifest.Project{
		Name:          "Weekly Sync",
		EpisodeNumber: 12,
		Participants: []manifest.Participant{
			{Name: "alice", Role: "host", Track: "raw/alice.wav"},
			{Name: "bob", Role: "guest", Track: "raw/bob.wav"},
		},
	}, &cfg)

	for _, track := range []string{"raw/alice.wav", "raw/bob.wav"} {
		path := filepath.Join(root, track)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("wav"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	segments := []transcript.Segment{
		{ID: "seg-0001", Speaker: "alice", Start: 0, End: 10, Text: "intro"},
		{ID: "seg-0002", Speaker: "bob", Start: 12, End: 20, Text: "answer"},
	}
	cuts := []edl.Edit{{
		ID:          "cut-001",
		Kind:        edl.KindCut,
		SourceStart: 10,
		SourceEnd:   12,
		Reason:      edl.ReasonFiller,
		Confidence:  edl.Confidence(0.95),
		AutoApplied: true,
	}}
	sidecar := edl.Build(segments, cuts, edl.BuildOptions{
		EpisodeID:           m.EpisodeID(),
		FrameRate:           30,
		CrossfadeDurationMs: m.Config.Editing.CrossfadeDurationMs,
	})
	sidecarPath := filepath.Join(root, m.Files.EDLSidecar)
	if err := os.MkdirAll(filepath.Dir(sidecarPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := edl.SaveSidecar(sidecarPath, sidecar); err != nil {
		t.Fatal(err)
	}

	align := &alignment.Map{
		Version:        "1.0",
		ReferenceTrack: "raw/alice.wav",
		Tracks: []alignment.Track{
			{Path: "raw/alice.wav", OffsetMs: 0, IsReference: true, Method: "reference", Confidence: 1.0},
			{Path: "raw/bob.wav", OffsetMs: -250, Method: "reference", Confidence: 1.0},
		},
	}
	alignPath := filepath.Join(root, m.Files.AlignmentMap)
	if err := os.MkdirAll(filepath.Dir(alignPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := alignment.Save(alignPath, align); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestValidateInputsReportsMissingArtifacts(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	m := manifest.New(manifest.Project{
		Name:          "Weekly Sync",
		EpisodeNumber: 12,
		Participants:  []manifest.Participant{{Name: "alice", Role: "host", Track: "raw/alice.wav"}},
	}, &cfg)

	var calls []string
	stage := New(logging.NewNop(), stubClient(t, &calls))
	problems := stage.ValidateInputs(root, m)
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}
}

func TestRunRendersMixedEpisode(t *testing.T) {
	root := t.TempDir()
	m := testProject(t, root)

	var calls []string
	stage := New(logging.NewNop(), stubClient(t, &calls))
	if problems := stage.ValidateInputs(root, m); len(problems) != 0 {
		t.Fatalf("unexpected validation problems: %v", problems)
	}
	if err := stage.Run(context.Background(), root, m); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !fileutil.Exists(filepath.Join(root, m.Files.MixedAudio)) {
		t.Fatal("mixed audio missing")
	}

	var log MixLog
	if err := fileutil.ReadJSON(filepath.Join(root, m.Files.MixingLog), &log); err != nil {
		t.Fatalf("read mix log: %v", err)
	}
	if log.RegionsApplied != 2 {
		t.Fatalf("regions applied = %d", log.RegionsApplied)
	}
	if log.CrossfadesApplied != 1 {
		t.Fatalf("crossfades applied = %d", log.CrossfadesApplied)
	}
	if log.EpisodeID != "weekly-sync-ep12" {
		t.Fatalf("episode id = %q", log.EpisodeID)
	}

	joined := strings.Join(calls, "\n")
	// Bob's region starts at source 12s shifted by the -250ms track offset.
	if !strings.Contains(joined, "-ss 11.75") {
		t.Fatalf("offset-adjusted extraction missing:\n%s", joined)
	}
	if !strings.Contains(joined, "acrossfade=d=0.05") {
		t.Fatalf("crossfade missing:\n%s", joined)
	}
	if got := m.Stage(manifest.StageMixing).LastCompletedStep; got != "log" {
		t.Fatalf("last step = %q", got)
	}
}
