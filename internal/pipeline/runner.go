package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"podpress/internal/journal"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services"
)

// maxErrorMessageLength caps persisted failure messages so a verbose tool
// dump cannot bloat the manifest.
const maxErrorMessageLength = 500

// Stage is the contract every pipeline stage implements.
type Stage interface {
	Name() string
	// ValidateInputs returns every missing precondition at once; an empty
	// list means the stage may start.
	ValidateInputs(root string, m *manifest.Manifest) []string
	Run(ctx context.Context, root string, m *manifest.Manifest) error
}

// Choice is a gate decision outcome.
type Choice int

const (
	// Defer leaves the gate pending and halts the run.
	Defer Choice = iota
	ChoiceApprove
	ChoiceReject
)

// Decision is a reviewer's answer for one pending gate.
type Decision struct {
	Choice Choice
	Notes  string
}

// Decider supplies gate decisions. The runner blocks stage progress on it; a
// nil decider leaves every gate pending.
type Decider interface {
	Decide(ctx context.Context, stage string, m *manifest.Manifest) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, stage string, m *manifest.Manifest) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, stage string, m *manifest.Manifest) (Decision, error) {
	return f(ctx, stage, m)
}

// Runner walks the stage sequence for one project.
type Runner struct {
	root    string
	log     *slog.Logger
	stages  map[string]Stage
	decider Decider
	events  *journal.Store
}

// NewRunner creates a runner for the project at root with the given stage
// implementations.
func NewRunner(root string, log *slog.Logger, stages ...Stage) *Runner {
	table := make(map[string]Stage, len(stages))
	for _, stage := range stages {
		table[stage.Name()] = stage
	}
	return &Runner{
		root:   root,
		log:    logging.NewComponentLogger(log, "pipeline"),
		stages: table,
	}
}

// WithDecider sets the gate decision source.
func (r *Runner) WithDecider(decider Decider) {
	r.decider = decider
}

// WithJournal enables event journaling. The journal is advisory; recording
// failures are logged and never fail the pipeline.
func (r *Runner) WithJournal(store *journal.Store) {
	r.events = store
}

// ManifestPath returns the manifest location inside the project root.
func (r *Runner) ManifestPath() string {
	return filepath.Join(r.root, manifest.FileName)
}

// Run executes stages in order starting at fromStage (empty means the first
// stage), halting at a failure, a rejected gate, or a gate with no decision.
// A halted run leaves the manifest in a state a later Run resumes from.
func (r *Runner) Run(ctx context.Context, fromStage string) error {
	order := manifest.StageOrder()
	start := 0
	if fromStage != "" {
		found := false
		for i, name := range order {
			if name == fromStage {
				start, found = i, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownStage, fromStage)
		}
	}

	m, err := manifest.Load(r.ManifestPath())
	if err != nil {
		return err
	}
	ctx = services.WithProject(ctx, m.EpisodeID())
	ctx = services.WithRunID(ctx, uuid.NewString())
	wasComplete := m.Pipeline.CurrentStage == manifest.StageComplete

	for _, name := range order[start:] {
		status := m.Stage(name)
		if status.Approved() {
			continue
		}
		if status.GatePending() {
			proceed, err := r.resolveGate(ctx, name, m)
			if err != nil || !proceed {
				return err
			}
			continue
		}

		if err := r.runStage(ctx, name, m); err != nil {
			return err
		}
		proceed, err := r.resolveGate(ctx, name, m)
		if err != nil || !proceed {
			return err
		}
	}

	if m.Complete() && !wasComplete {
		m.Pipeline.CurrentStage = manifest.StageComplete
		if err := r.persist(m); err != nil {
			return err
		}
		r.record(ctx, m, "", journal.EventPipelineCompleted, "")
		r.log.Info("pipeline complete", logging.String("project", m.EpisodeID()))
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, name string, m *manifest.Manifest) error {
	stage, ok := r.stages[name]
	if !ok {
		return fmt.Errorf("%w: no implementation registered for %s", ErrUnknownStage, name)
	}

	if problems := stage.ValidateInputs(r.root, m); len(problems) > 0 {
		return &InputValidationError{Stage: name, Problems: problems}
	}

	ctx = services.WithStage(ctx, name)
	log := logging.WithContext(ctx, r.log)

	m.MarkInProgress(name)
	if err := r.persist(m); err != nil {
		return err
	}
	r.record(ctx, m, name, journal.EventStageStarted, "")
	log.Info("stage started")

	if err := stage.Run(ctx, r.root, m); err != nil {
		message := services.Truncate(err.Error(), maxErrorMessageLength)
		m.MarkFailed(name, services.ErrorKind(err), message)
		if persistErr := r.persist(m); persistErr != nil {
			return fmt.Errorf("stage %s failed (%w); additionally failed to persist failure state: %v", name, err, persistErr)
		}
		r.record(ctx, m, name, journal.EventStageFailed, message)
		log.Error("stage failed", logging.Error(err))
		return fmt.Errorf("stage %s failed: %w", name, err)
	}

	m.MarkCompleted(name)
	if err := r.persist(m); err != nil {
		return err
	}
	r.record(ctx, m, name, journal.EventStageCompleted, "")
	log.Info("stage completed")
	return nil
}

// resolveGate asks the decider about a pending gate. It returns true when the
// pipeline may advance past the stage.
func (r *Runner) resolveGate(ctx context.Context, name string, m *manifest.Manifest) (bool, error) {
	if r.decider == nil {
		r.log.Info("gate pending, awaiting review", logging.String("stage", name))
		return false, nil
	}

	decision, err := r.decider.Decide(ctx, name, m)
	if err != nil {
		return false, fmt.Errorf("gate decision for %s: %w", name, err)
	}

	switch decision.Choice {
	case ChoiceApprove:
		if _, err := Approve(m, decision.Notes); err != nil {
			return false, err
		}
		if err := r.persist(m); err != nil {
			return false, err
		}
		r.record(ctx, m, name, journal.EventGateApproved, decision.Notes)
		r.log.Info("gate approved", logging.String("stage", name))
		return true, nil
	case ChoiceReject:
		if _, err := Reject(m, decision.Notes); err != nil {
			return false, err
		}
		if err := r.persist(m); err != nil {
			return false, err
		}
		r.record(ctx, m, name, journal.EventGateRejected, decision.Notes)
		r.log.Info("gate rejected, stage reset to pending", logging.String("stage", name))
		return false, nil
	default:
		r.log.Info("gate pending, no decision supplied", logging.String("stage", name))
		return false, nil
	}
}

func (r *Runner) persist(m *manifest.Manifest) error {
	return manifest.Save(r.ManifestPath(), m)
}

func (r *Runner) record(ctx context.Context, m *manifest.Manifest, stage, eventType, detail string) {
	if r.events == nil {
		return
	}
	if err := r.events.Record(ctx, m.EpisodeID(), stage, eventType, detail); err != nil {
		r.log.Warn("journal write failed", logging.Error(err))
	}
}
