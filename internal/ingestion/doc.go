// Package ingestion implements the first pipeline stage: it catalogs the raw
// source tracks, transcribes each one, aligns the tracks onto a common
// timeline, and merges the per-track transcripts into the unified transcript
// artifact the editing stage consumes.
package ingestion
