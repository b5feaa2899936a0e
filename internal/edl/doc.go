// Package edl models the Edit Decision List: typed keep/cut intervals with
// provenance and confidence, the computed timeline sidecar artifact, and the
// builder that turns an approved cut set into a contiguous, gap-free output
// timeline.
//
// Keep edits carry both source-time and record-time bounds; cut edits never
// carry record time. The builder guarantees that keep edits tile the output
// timeline from zero with no gaps or overlaps, which downstream audio
// rendering depends on for correct concatenation.
package edl
