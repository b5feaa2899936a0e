package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoGatePending is returned when approve or reject is invoked with no
// stage awaiting review.
var ErrNoGatePending = errors.New("no gate pending")

// ErrUnknownStage is returned for a from_stage argument that names no known
// stage, before any manifest mutation.
var ErrUnknownStage = errors.New("unknown stage")

// InputValidationError reports every missing stage input at once. The stage
// is never started when this is returned.
type InputValidationError struct {
	Stage    string
	Problems []string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("stage %s inputs invalid: %s", e.Stage, strings.Join(e.Problems, "; "))
}
