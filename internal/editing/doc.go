// Package editing implements the content editing stage. Detectors scan the
// transcript for filler words, false starts, extended silences, and tangent
// proposals, the aggregator merges and budget-caps the resulting cuts, and the
// timeline builder turns them into the EDL artifacts reviewed at the editing
// gate.
package editing
