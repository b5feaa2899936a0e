package manifest

import (
	"fmt"
	"strings"
	"time"
)

// Stage names in fixed execution order. StageComplete is the terminal
// current_stage value once every gate has been approved.
const (
	StageIngestion = "ingestion"
	StageEditing   = "editing"
	StageMixing    = "mixing"
	StageMastering = "mastering"
	StageComplete  = "complete"
)

var stageOrder = []string{StageIngestion, StageEditing, StageMixing, StageMastering}

// StageOrder returns the fixed stage sequence.
func StageOrder() []string {
	cp := make([]string, len(stageOrder))
	copy(cp, stageOrder)
	return cp
}

// KnownStage reports whether name is one of the four pipeline stages.
func KnownStage(name string) bool {
	for _, stage := range stageOrder {
		if stage == name {
			return true
		}
	}
	return false
}

// NextStage returns the stage following current, or StageComplete after the
// last one.
func NextStage(current string) string {
	for i, stage := range stageOrder {
		if stage == current {
			if i+1 < len(stageOrder) {
				return stageOrder[i+1]
			}
			return StageComplete
		}
	}
	return StageComplete
}

// StageState is the lifecycle of one pipeline stage.
type StageState string

const (
	StatePending    StageState = "pending"
	StateInProgress StageState = "in_progress"
	StateCompleted  StageState = "completed"
	StateFailed     StageState = "failed"
)

// StageError records why a stage failed. Step is the last diagnostic
// checkpoint the stage reported before raising; it is never resumed from.
type StageError struct {
	Kind    string `yaml:"kind"`
	Message string `yaml:"message"`
	Step    string `yaml:"step,omitempty"`
}

// StageStatus is the durable state machine record for one stage.
type StageStatus struct {
	Status            StageState        `yaml:"status"`
	StartedAt         *time.Time        `yaml:"started_at,omitempty"`
	CompletedAt       *time.Time        `yaml:"completed_at,omitempty"`
	GateApproved      *bool             `yaml:"gate_approved,omitempty"`
	GateApprovedAt    *time.Time        `yaml:"gate_approved_at,omitempty"`
	GateNotes         string            `yaml:"gate_notes,omitempty"`
	Error             *StageError       `yaml:"error,omitempty"`
	LastCompletedStep string            `yaml:"last_completed_step,omitempty"`
	ArtifactChecksums map[string]string `yaml:"artifact_checksums,omitempty"`
}

// GatePending reports whether the stage completed but still awaits review.
func (s *StageStatus) GatePending() bool {
	return s.Status == StateCompleted && s.GateApproved == nil
}

// Approved reports whether the stage completed with an approved gate.
func (s *StageStatus) Approved() bool {
	return s.Status == StateCompleted && s.GateApproved != nil && *s.GateApproved
}

// Pipeline is the execution state across all stages.
type Pipeline struct {
	CurrentStage string                  `yaml:"current_stage"`
	Stages       map[string]*StageStatus `yaml:"stages"`
}

// NewPipeline returns a pipeline with every stage pending.
func NewPipeline() Pipeline {
	stages := make(map[string]*StageStatus, len(stageOrder))
	for _, name := range stageOrder {
		stages[name] = &StageStatus{Status: StatePending}
	}
	return Pipeline{CurrentStage: StageIngestion, Stages: stages}
}

// Stage returns the status record for name, creating a pending record if the
// manifest predates the stage.
func (m *Manifest) Stage(name string) *StageStatus {
	if m.Pipeline.Stages == nil {
		m.Pipeline.Stages = make(map[string]*StageStatus, len(stageOrder))
	}
	status, ok := m.Pipeline.Stages[name]
	if !ok {
		status = &StageStatus{Status: StatePending}
		m.Pipeline.Stages[name] = status
	}
	return status
}

// MarkInProgress transitions a stage into in_progress, clearing any previous
// failure. The caller must persist the manifest before starting stage work so
// a crash is observable as in_progress on reload.
func (m *Manifest) MarkInProgress(name string) {
	status := m.Stage(name)
	now := nowUTC()
	status.Status = StateInProgress
	status.StartedAt = &now
	status.CompletedAt = nil
	status.Error = nil
	status.GateApproved = nil
	status.GateApprovedAt = nil
	m.Pipeline.CurrentStage = name
}

// MarkCompleted transitions a stage to completed with the gate unresolved.
func (m *Manifest) MarkCompleted(name string) {
	status := m.Stage(name)
	now := nowUTC()
	status.Status = StateCompleted
	status.CompletedAt = &now
	status.GateApproved = nil
}

// MarkFailed records a failure. The message is truncated by the caller; the
// step is the stage's last reported diagnostic checkpoint.
func (m *Manifest) MarkFailed(name, kind, message string) {
	status := m.Stage(name)
	status.Status = StateFailed
	status.Error = &StageError{
		Kind:    kind,
		Message: message,
		Step:    status.LastCompletedStep,
	}
}

// RecordStep stores a diagnostic checkpoint for the in-flight stage.
func (m *Manifest) RecordStep(name, step string) {
	m.Stage(name).LastCompletedStep = step
}

// Complete reports whether every stage finished with an approved gate.
func (m *Manifest) Complete() bool {
	for _, name := range stageOrder {
		if !m.Stage(name).Approved() {
			return false
		}
	}
	return true
}

func (p *Pipeline) validate() error {
	inProgress := 0
	for name, status := range p.Stages {
		if status == nil {
			return fmt.Errorf("stage %s has no status record", name)
		}
		switch status.Status {
		case StatePending, StateInProgress, StateCompleted, StateFailed:
		default:
			return fmt.Errorf("stage %s has unknown status %q", name, status.Status)
		}
		if status.Status == StateInProgress {
			inProgress++
		}
		if status.GateApproved != nil && status.Status != StateCompleted {
			return fmt.Errorf("stage %s carries a gate decision while %s", name, status.Status)
		}
	}
	if inProgress > 1 {
		return fmt.Errorf("%d stages marked in_progress, expected at most one", inProgress)
	}
	current := strings.TrimSpace(p.CurrentStage)
	if current != "" && current != StageComplete && !KnownStage(current) {
		return fmt.Errorf("unknown current_stage %q", current)
	}
	return nil
}
