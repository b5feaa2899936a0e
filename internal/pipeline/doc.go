// Package pipeline drives the four-stage episode pipeline: it walks the fixed
// stage order, transitions the per-stage state machine, persists the manifest
// around every transition, and enforces the human approval gate between
// stages.
package pipeline
