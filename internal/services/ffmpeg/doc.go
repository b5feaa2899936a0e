// Package ffmpeg wraps the ffmpeg and ffprobe binaries used by the mixing and
// mastering stages. A custom command runner can be injected so stage logic is
// testable without the tools installed.
package ffmpeg
