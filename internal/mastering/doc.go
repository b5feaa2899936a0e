// Package mastering implements the final pipeline stage: loudness
// normalization of the mixed episode followed by MP3 and WAV delivery encodes
// and a metadata report with output checksums.
package mastering
