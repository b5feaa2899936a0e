package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled pipeline events for the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadProjectManifest(ctx)
			if err != nil {
				return err
			}
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Journal is disabled in configuration.")
				return nil
			}
			defer store.Close()

			events, err := store.List(cmd.Context(), m.EpisodeID(), limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events recorded yet.")
				return nil
			}
			renderHistory(cmd.OutOrStdout(), events)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events to show (0 = all)")
	return cmd
}
