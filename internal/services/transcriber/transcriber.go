// Package transcriber shells out to a WhisperX-compatible speech-to-text
// binary and parses its JSON output into transcript segments.
package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes a tool invocation and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client invokes the transcriber binary.
type Client struct {
	binary string
	runner Runner
}

// New creates a client for the given binary. An empty name falls back to
// whisperx on PATH.
func New(binary string) *Client {
	if binary == "" {
		binary = "whisperx"
	}
	return &Client{binary: binary}
}

// WithRunner sets a custom command runner (for testing).
func (c *Client) WithRunner(runner Runner) {
	c.runner = runner
}

// Transcribe runs the transcriber on one audio track and returns the path of
// the JSON output it produced.
func (c *Client) Transcribe(ctx context.Context, source, outputDir, model, language string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := []string{
		source,
		"--output_dir", outputDir,
		"--output_format", "json",
	}
	if model != "" {
		args = append(args, "--model", model)
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	if err := c.run(ctx, c.binary, args...); err != nil {
		return "", fmt.Errorf("%s: %w", c.binary, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, baseName+".json"), nil
}

func (c *Client) run(ctx context.Context, name string, args ...string) error {
	if c.runner != nil {
		_, err := c.runner(ctx, name, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Word is one transcribed word with timing from the tool's JSON output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score,omitempty"`
}

// Segment is one transcribed segment from the tool's JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

type payload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// LoadSegments parses the JSON output file produced by a Transcribe call.
func LoadSegments(jsonPath string) ([]Segment, string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, "", err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, "", fmt.Errorf("parse transcriber output %s: %w", jsonPath, err)
	}
	return p.Segments, p.Language, nil
}
