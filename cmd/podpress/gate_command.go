package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"podpress/internal/journal"
	"podpress/internal/manifest"
	"podpress/internal/pipeline"
)

func newGateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Review the pending stage gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadProjectManifest(ctx)
			if err != nil {
				return err
			}
			stage, ok := pipeline.FindPendingGate(m)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No gate pending.")
				return nil
			}
			summary, err := pipeline.SummarizeGate(ctx.projectRoot(), m, stage)
			if err != nil {
				return err
			}
			renderGateSummary(cmd.OutOrStdout(), summary)
			fmt.Fprintf(cmd.OutOrStdout(), "Resolve with `podpress gate approve` or `podpress gate reject`.\n")
			return nil
		},
	}

	cmd.AddCommand(newGateDecisionCommand(ctx, true))
	cmd.AddCommand(newGateDecisionCommand(ctx, false))
	return cmd
}

func newGateDecisionCommand(ctx *commandContext, approve bool) *cobra.Command {
	var notes string

	use, short := "approve", "Approve the pending gate and advance the pipeline"
	if !approve {
		use, short = "reject", "Reject the pending gate and reset its stage to pending"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadProjectManifest(ctx)
			if err != nil {
				return err
			}

			var stage string
			if approve {
				stage, err = pipeline.Approve(m, notes)
			} else {
				stage, err = pipeline.Reject(m, notes)
			}
			if err != nil {
				return err
			}
			if err := manifest.Save(manifestPath(ctx), m); err != nil {
				return err
			}

			eventType := journal.EventGateApproved
			verb := "approved"
			if !approve {
				eventType = journal.EventGateRejected
				verb = "rejected"
			}
			if store, journalErr := ctx.openJournal(); journalErr == nil && store != nil {
				defer store.Close()
				_ = store.Record(cmd.Context(), m.EpisodeID(), stage, eventType, notes)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Gate for %s %s. Current stage: %s\n", stage, verb, m.Pipeline.CurrentStage)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Reviewer notes recorded with the decision")
	return cmd
}

func manifestPath(ctx *commandContext) string {
	return filepath.Join(ctx.projectRoot(), manifest.FileName)
}

func loadProjectManifest(ctx *commandContext) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath(ctx))
}
