package editing

import (
	"fmt"

	"podpress/internal/edl"
)

// ReasonBreakdown counts edits and removed time for one detector.
type ReasonBreakdown struct {
	Count       int     `json:"count"`
	TimeRemoved float64 `json:"time_removed"`
}

// ReportSummary aggregates the edit set for gate review.
type ReportSummary struct {
	TotalEdits       int                        `json:"total_edits"`
	AutoApplied      int                        `json:"auto_applied"`
	FlaggedForReview int                        `json:"flagged_for_review"`
	TimeRemoved      float64                    `json:"time_removed_seconds"`
	Breakdown        map[string]ReasonBreakdown `json:"breakdown"`
}

// ReportEntry is one cut in human-reviewable form.
type ReportEntry struct {
	EditID      string   `json:"edit_id"`
	Reason      string   `json:"type"`
	Time        string   `json:"time"`
	Duration    string   `json:"duration"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Rationale   string   `json:"rationale,omitempty"`
	AutoApplied bool     `json:"auto_applied"`
	ReviewFlag  string   `json:"review_flag,omitempty"`
}

// RationaleReport explains every proposed cut for the editing gate.
type RationaleReport struct {
	Version string        `json:"version"`
	Summary ReportSummary `json:"summary"`
	Edits   []ReportEntry `json:"edits"`
}

// BuildRationale assembles the gate review report from the final cut set.
func BuildRationale(cuts []edl.Edit) RationaleReport {
	report := RationaleReport{
		Version: "1.0",
		Summary: ReportSummary{
			TotalEdits: len(cuts),
			Breakdown:  make(map[string]ReasonBreakdown),
		},
		Edits: make([]ReportEntry, 0, len(cuts)),
	}

	for _, cut := range cuts {
		if cut.AutoApplied {
			report.Summary.AutoApplied++
		} else {
			report.Summary.FlaggedForReview++
		}
		report.Summary.TimeRemoved += cut.Duration()

		key := string(cut.Reason)
		if key == "" {
			key = "unknown"
		}
		breakdown := report.Summary.Breakdown[key]
		breakdown.Count++
		breakdown.TimeRemoved += cut.Duration()
		report.Summary.Breakdown[key] = breakdown

		report.Edits = append(report.Edits, ReportEntry{
			EditID:      cut.ID,
			Reason:      key,
			Time:        fmt.Sprintf("%s - %s", formatClock(cut.SourceStart), formatClock(cut.SourceEnd)),
			Duration:    fmt.Sprintf("%.1fs", cut.Duration()),
			Confidence:  cut.Confidence,
			Rationale:   cut.Rationale,
			AutoApplied: cut.AutoApplied,
			ReviewFlag:  cut.ReviewFlag,
		})
	}
	return report
}

func formatClock(seconds float64) string {
	whole := int(seconds)
	return fmt.Sprintf("%02d:%02d", whole/60, whole%60)
}
