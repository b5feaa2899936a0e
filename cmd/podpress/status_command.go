package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"podpress/internal/manifest"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pipeline progress for the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(cmd, ctx, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable status")
	return cmd
}

type stageStatusView struct {
	Stage       string     `json:"stage"`
	Status      string     `json:"status"`
	Gate        string     `json:"gate"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	LastStep    string     `json:"last_completed_step,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type statusView struct {
	Project      string            `json:"project"`
	EpisodeID    string            `json:"episode_id"`
	Title        string            `json:"title,omitempty"`
	CurrentStage string            `json:"current_stage"`
	Stages       []stageStatusView `json:"stages"`
}

func buildStatusView(m *manifest.Manifest) statusView {
	view := statusView{
		Project:      m.Project.Name,
		EpisodeID:    m.EpisodeID(),
		Title:        m.Project.Title,
		CurrentStage: m.Pipeline.CurrentStage,
	}
	for _, name := range manifest.StageOrder() {
		status := m.Stage(name)
		row := stageStatusView{
			Stage:       name,
			Status:      string(status.Status),
			Gate:        gateLabel(status),
			StartedAt:   status.StartedAt,
			CompletedAt: status.CompletedAt,
			LastStep:    status.LastCompletedStep,
		}
		if status.Error != nil {
			row.Error = fmt.Sprintf("%s: %s", status.Error.Kind, status.Error.Message)
		}
		view.Stages = append(view.Stages, row)
	}
	return view
}

func gateLabel(status *manifest.StageStatus) string {
	switch {
	case status.Approved():
		return "approved"
	case status.GatePending():
		return "pending review"
	default:
		return "-"
	}
}

func printStatus(cmd *cobra.Command, ctx *commandContext, asJSON bool) error {
	m, err := loadProjectManifest(ctx)
	if err != nil {
		return err
	}
	view := buildStatusView(m)

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	}

	renderStatus(cmd.OutOrStdout(), view)
	return nil
}
