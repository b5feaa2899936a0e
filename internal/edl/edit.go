package edl

// Kind distinguishes preserved intervals from removed ones.
type Kind string

const (
	KindKeep Kind = "keep"
	KindCut  Kind = "cut"
)

// Reason names the detector that proposed a cut.
type Reason string

const (
	ReasonFiller     Reason = "filler"
	ReasonFalseStart Reason = "false_start"
	ReasonSilence    Reason = "silence"
	ReasonTangent    Reason = "tangent"
)

// TransitionKind selects how record-adjacent keep edits are joined.
type TransitionKind string

const (
	TransitionCut       TransitionKind = "cut"
	TransitionCrossfade TransitionKind = "crossfade"
)

// Edit is a single timeline event. Cut edits mark source intervals for
// removal and never carry record-time bounds; keep edits span the output
// timeline contiguously.
type Edit struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"type"`
	SourceTrack string         `json:"source_track,omitempty"`
	SourceStart float64        `json:"source_start"`
	SourceEnd   float64        `json:"source_end"`
	RecordStart *float64       `json:"record_start,omitempty"`
	RecordEnd   *float64       `json:"record_end,omitempty"`
	Transition  TransitionKind `json:"transition,omitempty"`
	Speaker     string         `json:"speaker,omitempty"`
	Description string         `json:"description,omitempty"`
	Reason      Reason         `json:"reason,omitempty"`
	Confidence  *float64       `json:"confidence,omitempty"`
	Rationale   string         `json:"rationale,omitempty"`
	Segments    []string       `json:"segments,omitempty"`
	AutoApplied bool           `json:"auto_applied"`
	ReviewFlag  string         `json:"review_flag,omitempty"`
}

// Duration returns the source interval length in seconds.
func (e Edit) Duration() float64 {
	return e.SourceEnd - e.SourceStart
}

// ConfidenceValue returns the confidence score, treating absent as zero.
func (e Edit) ConfidenceValue() float64 {
	if e.Confidence == nil {
		return 0
	}
	return *e.Confidence
}

// Transition joins two record-adjacent keep edits.
type Transition struct {
	Between    []string       `json:"between"`
	Kind       TransitionKind `json:"type"`
	DurationMs int            `json:"duration_ms"`
}

// Confidence wraps a score for use in Edit literals.
func Confidence(value float64) *float64 {
	return &value
}
