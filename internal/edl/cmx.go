package edl

import (
	"fmt"
	"strings"
)

// RenderCMX3600 produces a CMX 3600 EDL document from the sidecar's keep
// edits, for import into conventional editing tools. Cut edits are implicit:
// anything not covered by a keep event was removed.
func RenderCMX3600(s *Sidecar) string {
	fps := s.FrameRate
	if fps <= 0 {
		fps = 30
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", s.EpisodeID)
	b.WriteString("FCM: NON-DROP FRAME\n\n")

	for i, keep := range s.KeepEdits() {
		event := i + 1
		srcIn := secondsToTimecode(keep.SourceStart, fps)
		srcOut := secondsToTimecode(keep.SourceEnd, fps)
		recIn := secondsToTimecode(deref(keep.RecordStart), fps)
		recOut := secondsToTimecode(deref(keep.RecordEnd), fps)

		transition := "C"
		if keep.Transition == TransitionCrossfade {
			transition = fmt.Sprintf("D %03d", fps)
		}

		fmt.Fprintf(&b, "%03d  REEL%04d  AA/V  %-8s %s %s %s %s\n",
			event, event, transition, srcIn, srcOut, recIn, recOut)
		if keep.Description != "" {
			fmt.Fprintf(&b, "* COMMENT: %.60s\n", keep.Description)
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// secondsToTimecode converts seconds to SMPTE HH:MM:SS:FF at the given rate.
func secondsToTimecode(seconds float64, fps int) string {
	totalFrames := int(seconds * float64(fps))
	ff := totalFrames % fps
	totalSeconds := totalFrames / fps
	ss := totalSeconds % 60
	mm := (totalSeconds / 60) % 60
	hh := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}

func deref(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
