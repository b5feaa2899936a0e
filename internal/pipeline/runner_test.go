package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"podpress/internal/config"
	"podpress/internal/journal"
	"podpress/internal/logging"
	"podpress/internal/manifest"
	"podpress/internal/services"
)

type fakeStage struct {
	name     string
	problems []string
	runErr   error
	runs     int
}

func (f *fakeStage) Name() string { return f.name }

func (f *fakeStage) ValidateInputs(root string, m *manifest.Manifest) []string {
	return f.problems
}

func (f *fakeStage) Run(ctx context.Context, root string, m *manifest.Manifest) error {
	f.runs++
	return f.runErr
}

func fakeStages() []*fakeStage {
	var stages []*fakeStage
	for _, name := range manifest.StageOrder() {
		stages = append(stages, &fakeStage{name: name})
	}
	return stages
}

func newTestRunner(t *testing.T, stages []*fakeStage) (*Runner, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	m := manifest.New(manifest.Project{
		Name:          "Weekly Sync",
		EpisodeNumber: 12,
		Participants:  []manifest.Participant{{Name: "Alice", Role: "host", Track: "raw/alice.wav"}},
	}, &cfg)

	asIface := make([]Stage, len(stages))
	for i, stage := range stages {
		asIface[i] = stage
	}
	runner := NewRunner(root, logging.NewNop(), asIface...)
	if err := manifest.Save(runner.ManifestPath(), m); err != nil {
		t.Fatal(err)
	}
	return runner, root
}

func approveAll() Decider {
	return DeciderFunc(func(ctx context.Context, stage string, m *manifest.Manifest) (Decision, error) {
		return Decision{Choice: ChoiceApprove}, nil
	})
}

func loadManifest(t *testing.T, runner *Runner) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Load(runner.ManifestPath())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRunHaltsAtFirstGateWithoutDecider(t *testing.T) {
	stages := fakeStages()
	runner, _ := newTestRunner(t, stages)

	if err := runner.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stages[0].runs != 1 {
		t.Fatalf("ingestion runs = %d, want 1", stages[0].runs)
	}
	if stages[1].runs != 0 {
		t.Fatal("editing must not run past a pending gate")
	}

	m := loadManifest(t, runner)
	status := m.Stage(manifest.StageIngestion)
	if !status.GatePending() {
		t.Fatalf("ingestion should await review: %+v", status)
	}
	if m.Pipeline.CurrentStage != manifest.StageIngestion {
		t.Fatalf("current_stage = %q", m.Pipeline.CurrentStage)
	}
}

func TestRunToCompletionWithApprovals(t *testing.T) {
	stages := fakeStages()
	runner, _ := newTestRunner(t, stages)
	runner.WithDecider(approveAll())

	store, err := journal.Open(runner.ManifestPath() + ".journal.db")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	runner.WithJournal(store)

	if err := runner.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, stage := range stages {
		if stage.runs != 1 {
			t.Fatalf("stage %s runs = %d, want 1", stage.name, stage.runs)
		}
	}

	m := loadManifest(t, runner)
	if !m.Complete() {
		t.Fatal("pipeline should be complete")
	}
	if m.Pipeline.CurrentStage != manifest.StageComplete {
		t.Fatalf("current_stage = %q", m.Pipeline.CurrentStage)
	}

	events, err := store.List(context.Background(), m.EpisodeID(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 || events[0].Type != journal.EventPipelineCompleted {
		t.Fatalf("expected pipeline_completed as newest event, got %+v", events)
	}
}

func TestGateRejectionResetsStageAndRerunIt(t *testing.T) {
	stages := fakeStages()
	runner, _ := newTestRunner(t, stages)
	runner.WithDecider(DeciderFunc(func(ctx context.Context, stage string, m *manifest.Manifest) (Decision, error) {
		if stage == manifest.StageEditing {
			return Decision{Choice: ChoiceReject, Notes: "too aggressive"}, nil
		}
		return Decision{Choice: ChoiceApprove}, nil
	}))

	if err := runner.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	m := loadManifest(t, runner)
	status := m.Stage(manifest.StageEditing)
	if status.Status != manifest.StatePending || status.GateApproved != nil {
		t.Fatalf("rejected stage should reset to pending: %+v", status)
	}
	if status.GateNotes != "too aggressive" {
		t.Fatalf("notes = %q", status.GateNotes)
	}
	if m.Pipeline.CurrentStage != manifest.StageEditing {
		t.Fatalf("current_stage = %q", m.Pipeline.CurrentStage)
	}
	if stages[2].runs != 0 {
		t.Fatal("mixing must not run after a rejection")
	}

	// A later run re-executes editing from scratch.
	runner.WithDecider(approveAll())
	if err := runner.Run(context.Background(), ""); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if stages[1].runs != 2 {
		t.Fatalf("editing runs = %d, want 2", stages[1].runs)
	}
	if !loadManifest(t, runner).Complete() {
		t.Fatal("pipeline should complete after re-run")
	}
}

func TestStageFailureIsPersistedAndResumable(t *testing.T) {
	stages := fakeStages()
	longDetail := strings.Repeat("x", 600)
	stages[1].runErr = services.Wrap(services.ErrExternalTool, "editing", "edl", longDetail, nil)
	runner, _ := newTestRunner(t, stages)
	runner.WithDecider(approveAll())

	err := runner.Run(context.Background(), "")
	if err == nil {
		t.Fatal("expected stage failure to propagate")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("failure should keep its kind: %v", err)
	}

	m := loadManifest(t, runner)
	status := m.Stage(manifest.StageEditing)
	if status.Status != manifest.StateFailed {
		t.Fatalf("status = %q", status.Status)
	}
	if status.Error == nil || status.Error.Kind != "external_tool" {
		t.Fatalf("error record = %+v", status.Error)
	}
	if len(status.Error.Message) > 500 {
		t.Fatalf("persisted message length = %d, want <= 500", len(status.Error.Message))
	}

	// Fix the stage and resume: the failed stage re-runs from its beginning.
	stages[1].runErr = nil
	if err := runner.Run(context.Background(), ""); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if stages[1].runs != 2 {
		t.Fatalf("editing runs = %d, want 2", stages[1].runs)
	}
	if stages[0].runs != 1 {
		t.Fatalf("approved ingestion must not re-run, runs = %d", stages[0].runs)
	}
}

func TestInputValidationFailsBeforeStarting(t *testing.T) {
	stages := fakeStages()
	stages[0].problems = []string{"source track not found: raw/alice.wav", "no participants defined"}
	runner, _ := newTestRunner(t, stages)

	err := runner.Run(context.Background(), "")
	var invalid *InputValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InputValidationError, got %v", err)
	}
	if len(invalid.Problems) != 2 {
		t.Fatalf("expected both problems reported, got %v", invalid.Problems)
	}
	if stages[0].runs != 0 {
		t.Fatal("stage must not start with invalid inputs")
	}

	m := loadManifest(t, runner)
	if got := m.Stage(manifest.StageIngestion).Status; got != manifest.StatePending {
		t.Fatalf("status = %q, want pending (stage never started)", got)
	}
}

func TestRunRejectsUnknownFromStage(t *testing.T) {
	runner, _ := newTestRunner(t, fakeStages())
	err := runner.Run(context.Background(), "publish")
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestRunFromStageSkipsEarlierStages(t *testing.T) {
	stages := fakeStages()
	runner, _ := newTestRunner(t, stages)

	if err := runner.Run(context.Background(), manifest.StageEditing); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stages[0].runs != 0 {
		t.Fatal("from_stage must skip ingestion")
	}
	if stages[1].runs != 1 {
		t.Fatalf("editing runs = %d, want 1", stages[1].runs)
	}
}
