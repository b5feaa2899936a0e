package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes a tool invocation and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client invokes ffmpeg and ffprobe.
type Client struct {
	ffmpegBinary  string
	ffprobeBinary string
	runner        Runner
}

// New creates a client for the given binaries. Empty names fall back to the
// commands on PATH.
func New(ffmpegBinary, ffprobeBinary string) *Client {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	return &Client{ffmpegBinary: ffmpegBinary, ffprobeBinary: ffprobeBinary}
}

// WithRunner sets a custom command runner (for testing).
func (c *Client) WithRunner(runner Runner) {
	c.runner = runner
}

func (c *Client) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.runner != nil {
		return c.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// ExtractRegion cuts a mono PCM region out of a source track.
func (c *Client) ExtractRegion(ctx context.Context, source, dest string, start, duration float64, sampleRate, bitDepth int) error {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", formatFloat(start),
		"-t", formatFloat(duration),
		"-i", source,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", pcmCodec(bitDepth),
		"-y", dest,
	}
	_, err := c.run(ctx, c.ffmpegBinary, args...)
	return err
}

// Concat joins WAV files in order using the concat demuxer. listFile is a
// prepared ffmpeg concat list.
func (c *Client) Concat(ctx context.Context, listFile, dest string, sampleRate, bitDepth int) error {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listFile,
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", pcmCodec(bitDepth),
		"-y", dest,
	}
	_, err := c.run(ctx, c.ffmpegBinary, args...)
	return err
}

// Crossfade blends the tail of a into the head of b.
func (c *Client) Crossfade(ctx context.Context, a, b, dest string, durationMs, sampleRate, bitDepth int) error {
	seconds := float64(durationMs) / 1000
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", a,
		"-i", b,
		"-filter_complex", fmt.Sprintf("[0][1]acrossfade=d=%s:c1=tri:c2=tri", formatFloat(seconds)),
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", pcmCodec(bitDepth),
		"-y", dest,
	}
	_, err := c.run(ctx, c.ffmpegBinary, args...)
	return err
}

// LoudnormOptions are the two-pass loudness normalization targets.
type LoudnormOptions struct {
	TargetLUFS   float64
	TruePeakDBTP float64
	LRA          float64
	SampleRate   int
}

// Loudnorm normalizes loudness in a single pass to the given targets.
func (c *Client) Loudnorm(ctx context.Context, source, dest string, opts LoudnormOptions) error {
	filter := fmt.Sprintf("loudnorm=I=%s:TP=%s:LRA=%s",
		formatFloat(opts.TargetLUFS), formatFloat(opts.TruePeakDBTP), formatFloat(opts.LRA))
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", source,
		"-af", filter,
		"-ar", strconv.Itoa(opts.SampleRate),
		"-y", dest,
	}
	_, err := c.run(ctx, c.ffmpegBinary, args...)
	return err
}

// EncodeMP3 encodes a WAV master to MP3 at a constant bitrate.
func (c *Client) EncodeMP3(ctx context.Context, source, dest string, bitrateKbps, sampleRate int) error {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", source,
		"-c:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", bitrateKbps),
		"-ar", strconv.Itoa(sampleRate),
		"-y", dest,
	}
	_, err := c.run(ctx, c.ffmpegBinary, args...)
	return err
}

func pcmCodec(bitDepth int) string {
	switch bitDepth {
	case 16:
		return "pcm_s16le"
	case 32:
		return "pcm_s32le"
	default:
		return "pcm_s24le"
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
