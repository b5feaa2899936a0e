package editing

import (
	"fmt"
	"math"

	"podpress/internal/edl"
	"podpress/internal/fileutil"
)

// TangentProposal is one off-topic interval from the tangent report artifact.
// The report is produced out of band, typically by a topic analysis pass over
// the transcript, and dropped into the editing artifact directory before the
// stage runs.
type TangentProposal struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale,omitempty"`
	Type       string  `json:"tangent_type,omitempty"` // hard | soft
}

// TangentReport is the on-disk shape of the optional tangent artifact.
type TangentReport struct {
	Version   string            `json:"version"`
	Proposals []TangentProposal `json:"proposals"`
}

// TangentOptions filters raw proposals into cut edits.
type TangentOptions struct {
	// MinConfidence drops weak proposals entirely.
	MinConfidence float64
	// AutoThreshold is the confidence at which a tangent cut is auto-applied.
	AutoThreshold float64
	// MaxKeepSeconds preserves short asides; shorter tangents add personality
	// and are never cut.
	MaxKeepSeconds int
}

// LoadTangents reads the tangent report at path and converts its proposals
// into cut edits. A missing report is not an error: tangent detection is
// optional and the stage degrades to the objective detectors.
func LoadTangents(path string, opts TangentOptions) ([]edl.Edit, error) {
	if !fileutil.Exists(path) {
		return nil, nil
	}
	var report TangentReport
	if err := fileutil.ReadJSON(path, &report); err != nil {
		return nil, fmt.Errorf("tangent report %s: %w", path, err)
	}

	var edits []edl.Edit
	counter := 0
	for _, proposal := range report.Proposals {
		if proposal.Confidence < opts.MinConfidence {
			continue
		}
		if proposal.EndTime-proposal.StartTime < float64(opts.MaxKeepSeconds) {
			continue
		}

		confidence := math.Round(proposal.Confidence*100) / 100
		auto := confidence >= opts.AutoThreshold
		rationale := proposal.Rationale
		if rationale == "" {
			rationale = "off-topic digression"
		}

		counter++
		edit := edl.Edit{
			ID:          fmt.Sprintf("tangent-%03d", counter),
			Kind:        edl.KindCut,
			SourceStart: proposal.StartTime,
			SourceEnd:   proposal.EndTime,
			Reason:      edl.ReasonTangent,
			Confidence:  edl.Confidence(confidence),
			Rationale:   rationale,
			AutoApplied: auto,
		}
		if !auto {
			edit.ReviewFlag = fmt.Sprintf("confidence %.2f below auto-cut threshold %.2f", confidence, opts.AutoThreshold)
		}
		edits = append(edits, edit)
	}
	return edits, nil
}
