package ingestion

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podpress/internal/alignment"
	"podpress/internal/config"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services/ffmpeg"
	"podpress/internal/services/transcriber"
	"podpress/internal/transcript"
)

func testManifest(t *testing.T, root string) *manifest.Manifest {
	t.Helper()
	cfg := config.Default()
	m := manifest.New(manifest.Project{
		Name:          "Weekly Sync",
		EpisodeNumber: 12,
		Title:         "The Big Refactor",
		Participants: []manifest.Participant{
			{Name: "Alice", Role: "host", Track: "raw/alice.wav"},
			{Name: "Bob", Role: "guest", Track: "raw/bob.wav"},
		},
	}, &cfg)

	if err := os.MkdirAll(filepath.Join(root, "raw"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range m.Project.Participants {
		if err := os.WriteFile(filepath.Join(root, p.Track), []byte("RIFF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func stubProbe() *ffmpeg.Client {
	client := ffmpeg.New("ffmpeg", "ffprobe")
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{
			"streams": [{"codec_type": "audio", "sample_rate": "48000", "channels": 1}],
			"format": {"duration": "1800.0", "format_name": "wav"}
		}`), nil
	})
	return client
}

// stubTranscriber writes the JSON output the real binary would produce.
func stubTranscriber(t *testing.T) *transcriber.Client {
	t.Helper()
	client := transcriber.New("whisperx")
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		source := args[0]
		outputDir := ""
		for i, arg := range args {
			if arg == "--output_dir" && i+1 < len(args) {
				outputDir = args[i+1]
			}
		}
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		payload := map[string]any{
			"segments": []map[string]any{
				{"text": "Hello from " + base, "start": 0.0, "end": 5.0},
			},
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return nil, os.WriteFile(filepath.Join(outputDir, base+".json"), data, 0o644)
	})
	return client
}

func TestValidateInputsMissingTrack(t *testing.T) {
	root := t.TempDir()
	m := testManifest(t, root)
	if err := os.Remove(filepath.Join(root, "raw/bob.wav")); err != nil {
		t.Fatal(err)
	}

	stage := New(logging.NewNop(), stubProbe(), stubTranscriber(t))
	problems := stage.ValidateInputs(root, m)
	if len(problems) != 1 || !strings.Contains(problems[0], "bob.wav") {
		t.Fatalf("expected one problem about bob.wav, got %v", problems)
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	root := t.TempDir()
	m := testManifest(t, root)
	stage := New(logging.NewNop(), stubProbe(), stubTranscriber(t))

	if err := stage.Run(context.Background(), root, m); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	tr, err := transcript.Load(filepath.Join(root, m.Files.Transcript))
	if err != nil {
		t.Fatalf("transcript artifact: %v", err)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("expected 2 merged segments, got %d", len(tr.Segments))
	}
	if tr.EpisodeID != "weekly-sync-ep12" {
		t.Fatalf("episode id = %q", tr.EpisodeID)
	}

	align, err := alignment.Load(filepath.Join(root, m.Files.AlignmentMap))
	if err != nil {
		t.Fatalf("alignment artifact: %v", err)
	}
	if align.ReferenceTrack != "raw/alice.wav" {
		t.Fatalf("reference track = %q", align.ReferenceTrack)
	}

	if len(m.Files.SourceTracks) != 2 {
		t.Fatalf("source tracks not cataloged: %+v", m.Files.SourceTracks)
	}
	if m.Files.SourceTracks[0].DurationSeconds != 1800 {
		t.Fatalf("probe metadata missing: %+v", m.Files.SourceTracks[0])
	}
	if m.Stage(manifest.StageIngestion).LastCompletedStep != "merge" {
		t.Fatalf("last step = %q", m.Stage(manifest.StageIngestion).LastCompletedStep)
	}
}
