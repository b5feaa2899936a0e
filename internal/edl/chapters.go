package edl

// Chapter is a marker on the edited output timeline.
type Chapter struct {
	Title       string  `json:"title"`
	TimeSeconds float64 `json:"time"`
}

// minChapterGapSeconds drops markers that land too close to their predecessor
// after remapping.
const minChapterGapSeconds = 30

// RemapTime maps a source timestamp onto the edited timeline by subtracting
// every cut that lies entirely before it. A timestamp strictly inside a cut
// region was removed with its content; it has no edited position and the
// second return is false. Markers must be dropped in that case, never clamped.
func RemapTime(original float64, cuts []Edit) (float64, bool) {
	offset := 0.0
	for _, cut := range cuts {
		if cut.Kind != KindCut {
			continue
		}
		switch {
		case cut.SourceEnd <= original:
			offset += cut.Duration()
		case cut.SourceStart < original && original < cut.SourceEnd:
			return 0, false
		}
	}
	return original - offset, true
}

// Marker is a source-timeline chapter candidate, typically derived from topic
// boundaries identified during ingestion.
type Marker struct {
	Title       string  `json:"title"`
	TimeSeconds float64 `json:"time"`
}

// BuildChapters remaps source-timeline markers onto the edited timeline,
// always opening with an introduction chapter at zero and dropping markers
// that were cut out or crowd their predecessor.
func BuildChapters(markers []Marker, cuts []Edit) []Chapter {
	chapters := []Chapter{{Title: "Introduction", TimeSeconds: 0}}
	for _, marker := range markers {
		edited, ok := RemapTime(marker.TimeSeconds, cuts)
		if !ok || edited <= 0 {
			continue
		}
		if edited-chapters[len(chapters)-1].TimeSeconds < minChapterGapSeconds {
			continue
		}
		chapters = append(chapters, Chapter{Title: marker.Title, TimeSeconds: edited})
	}
	return chapters
}
