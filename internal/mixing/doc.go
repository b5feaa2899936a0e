// Package mixing implements the audio render stage: it maps approved keep
// edits onto per-speaker source tracks using the alignment offsets, extracts
// the regions with ffmpeg, and assembles them into the mixed episode.
package mixing
