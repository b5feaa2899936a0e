package ffmpeg

import (
	"context"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

func recordingClient(calls *[]call, output string) *Client {
	client := New("ffmpeg", "ffprobe")
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: args})
		return []byte(output), nil
	})
	return client
}

func TestExtractRegionArgs(t *testing.T) {
	var calls []call
	client := recordingClient(&calls, "")

	if err := client.ExtractRegion(context.Background(), "raw/alice.wav", "tmp/region-0000.wav", 12.5, 30, 48000, 24); err != nil {
		t.Fatalf("ExtractRegion failed: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "ffmpeg" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	joined := strings.Join(calls[0].args, " ")
	for _, want := range []string{"-ss 12.5", "-t 30", "-i raw/alice.wav", "-ac 1", "-ar 48000", "-c:a pcm_s24le"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
}

func TestCrossfadeArgs(t *testing.T) {
	var calls []call
	client := recordingClient(&calls, "")

	if err := client.Crossfade(context.Background(), "a.wav", "b.wav", "out.wav", 50, 48000, 24); err != nil {
		t.Fatalf("Crossfade failed: %v", err)
	}
	joined := strings.Join(calls[0].args, " ")
	if !strings.Contains(joined, "acrossfade=d=0.05") {
		t.Fatalf("expected 50ms crossfade filter, got %s", joined)
	}
}

func TestLoudnormArgs(t *testing.T) {
	var calls []call
	client := recordingClient(&calls, "")

	opts := LoudnormOptions{TargetLUFS: -16, TruePeakDBTP: -1, LRA: 11, SampleRate: 44100}
	if err := client.Loudnorm(context.Background(), "mixed.wav", "master.wav", opts); err != nil {
		t.Fatalf("Loudnorm failed: %v", err)
	}
	joined := strings.Join(calls[0].args, " ")
	for _, want := range []string{"loudnorm=I=-16:TP=-1:LRA=11", "-ar 44100"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
}

func TestProbeParsesOutput(t *testing.T) {
	var calls []call
	client := recordingClient(&calls, `{
		"streams": [{"codec_type": "audio", "sample_rate": "48000", "channels": 1}],
		"format": {"duration": "1800.250000", "format_name": "wav"}
	}`)

	result, err := client.Probe(context.Background(), "raw/alice.wav")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if result.DurationSeconds != 1800.25 {
		t.Fatalf("duration = %v", result.DurationSeconds)
	}
	if result.SampleRate != 48000 || result.Channels != 1 || result.Format != "wav" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if calls[0].name != "ffprobe" {
		t.Fatalf("expected ffprobe invocation, got %s", calls[0].name)
	}
}

func TestProbeRejectsMissingDuration(t *testing.T) {
	var calls []call
	client := recordingClient(&calls, `{"streams": [], "format": {}}`)
	if _, err := client.Probe(context.Background(), "raw/alice.wav"); err == nil {
		t.Fatal("expected error for missing duration")
	}
}
