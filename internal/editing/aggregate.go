package editing

import (
	"fmt"
	"sort"

	"podpress/internal/edl"
)

// MaxAutoCutRatio caps the fraction of the episode that detectors may remove
// without human sign-off. Anything beyond the budget is demoted to
// review-flagged, lowest confidence first.
const MaxAutoCutRatio = 0.5

// Coalesce merges overlapping cut proposals into single cuts so the timeline
// builder sees disjoint intervals. Touching cuts are left alone; the builder
// already joins them without emitting an empty keep. When two cuts merge the
// earlier one wins the identity and reason, the merged confidence is the
// weaker of the two, and a review flag on either side survives.
func Coalesce(cuts []edl.Edit) []edl.Edit {
	if len(cuts) < 2 {
		return cuts
	}
	sorted := make([]edl.Edit, len(cuts))
	copy(sorted, cuts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourceStart < sorted[j].SourceStart
	})

	merged := []edl.Edit{sorted[0]}
	for _, next := range sorted[1:] {
		current := &merged[len(merged)-1]
		if next.SourceStart >= current.SourceEnd {
			merged = append(merged, next)
			continue
		}

		if next.SourceEnd > current.SourceEnd {
			current.SourceEnd = next.SourceEnd
		}
		if next.ConfidenceValue() < current.ConfidenceValue() {
			current.Confidence = next.Confidence
		}
		current.AutoApplied = current.AutoApplied && next.AutoApplied
		if current.ReviewFlag == "" {
			current.ReviewFlag = next.ReviewFlag
		}
		current.Segments = appendUnique(current.Segments, next.Segments)
		absorbed := fmt.Sprintf("absorbed %s", next.ID)
		if current.Rationale == "" {
			current.Rationale = absorbed
		} else {
			current.Rationale += "; " + absorbed
		}
	}
	return merged
}

// CapAutoCuts enforces the auto-cut budget in place. When the auto-applied
// cuts would remove more than MaxAutoCutRatio of the episode, the
// lowest-confidence auto cuts are demoted to review-flagged until the
// remaining auto total fits the budget. Returns the number of demoted edits.
func CapAutoCuts(cuts []edl.Edit, episodeDuration float64) int {
	if episodeDuration <= 0 {
		return 0
	}
	budget := episodeDuration * MaxAutoCutRatio

	autoTotal := 0.0
	for _, cut := range cuts {
		if cut.AutoApplied {
			autoTotal += cut.Duration()
		}
	}
	if autoTotal <= budget {
		return 0
	}

	// Walk auto cuts strongest first, keeping what fits. Everything that
	// falls outside the budget loses auto-apply and gains a review flag, so
	// the weakest proposals are the ones demoted.
	order := make([]int, 0, len(cuts))
	for i := range cuts {
		if cuts[i].AutoApplied {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cuts[order[a]].ConfidenceValue() > cuts[order[b]].ConfidenceValue()
	})

	demoted := 0
	used := 0.0
	for _, i := range order {
		if used+cuts[i].Duration() <= budget {
			used += cuts[i].Duration()
			continue
		}
		cuts[i].AutoApplied = false
		cuts[i].ReviewFlag = fmt.Sprintf("auto-cut budget exceeded (over %.0f%% of episode)", MaxAutoCutRatio*100)
		demoted++
	}
	return demoted
}

func appendUnique(dst []string, src []string) []string {
	for _, candidate := range src {
		found := false
		for _, existing := range dst {
			if existing == candidate {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, candidate)
		}
	}
	return dst
}
