package mixing

import (
	"sort"

	"podpress/internal/alignment"
	"podpress/internal/edl"
)

// Region is one interval of source audio placed on the output timeline.
type Region struct {
	EditID      string
	TrackPath   string
	Speaker     string
	SourceStart float64
	SourceEnd   float64
	RecordStart float64
	RecordEnd   float64
	OffsetMs    float64
}

// Duration returns the region length in seconds.
func (r Region) Duration() float64 {
	return r.SourceEnd - r.SourceStart
}

// AdjustedStart returns the extraction start on the physical track: the
// source position shifted by the track's alignment offset, clamped at the
// start of the file.
func (r Region) AdjustedStart() float64 {
	adjusted := r.SourceStart + r.OffsetMs/1000
	if adjusted < 0 {
		return 0
	}
	return adjusted
}

// MapRegions turns the sidecar's keep edits into extraction regions ordered
// by output position. Speakers without a known track produce regions with an
// empty track path; the extraction step skips those.
func MapRegions(sidecar *edl.Sidecar, align *alignment.Map, speakerTracks map[string]string) []Region {
	keeps := sidecar.KeepEdits()
	regions := make([]Region, 0, len(keeps))

	for _, keep := range keeps {
		trackPath := speakerTracks[keep.Speaker]
		offsetMs := 0.0
		if trackPath != "" {
			offsetMs = align.OffsetFor(trackPath)
		}

		region := Region{
			EditID:      keep.ID,
			TrackPath:   trackPath,
			Speaker:     keep.Speaker,
			SourceStart: keep.SourceStart,
			SourceEnd:   keep.SourceEnd,
			OffsetMs:    offsetMs,
		}
		if keep.RecordStart != nil {
			region.RecordStart = *keep.RecordStart
		}
		if keep.RecordEnd != nil {
			region.RecordEnd = *keep.RecordEnd
		}
		regions = append(regions, region)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].RecordStart < regions[j].RecordStart
	})
	return regions
}
