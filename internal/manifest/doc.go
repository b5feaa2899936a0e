// Package manifest defines the episode manifest: the single durable source of
// truth for a podcast production pipeline.
//
// The manifest owns project metadata, the artifact path table, per-module
// processing configuration, and the per-stage state machine that drives
// resume, retry, and gate decisions. Every mutation is persisted with
// write-replace semantics before the pipeline proceeds, so a process killed at
// any point leaves the manifest consistent with some valid state.
//
// Treat this package as the single source of truth for stage semantics; when
// you add new statuses or fields, update the state helpers here rather than
// mutating fields from other packages.
package manifest
