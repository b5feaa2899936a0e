package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProbeResult is the audio metadata the stages care about.
type ProbeResult struct {
	DurationSeconds float64
	SampleRate      int
	Channels        int
	Format          string
}

type probePayload struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
}

// Probe inspects an audio file with ffprobe.
func (c *Client) Probe(ctx context.Context, path string) (ProbeResult, error) {
	var result ProbeResult
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	}
	output, err := c.run(ctx, c.ffprobeBinary, args...)
	if err != nil {
		return result, err
	}

	var payload probePayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return result, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}

	if payload.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(payload.Format.Duration, 64); err == nil {
			result.DurationSeconds = duration
		}
	}
	result.Format = payload.Format.FormatName
	for _, stream := range payload.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		if rate, err := strconv.Atoi(stream.SampleRate); err == nil {
			result.SampleRate = rate
		}
		result.Channels = stream.Channels
		break
	}
	if result.DurationSeconds <= 0 {
		return result, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	return result, nil
}
