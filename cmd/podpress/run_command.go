package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"podpress/internal/manifest"
	"podpress/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var fromStage string
	var approveAll bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline to its next blocking point",
		Long:  "Executes stages in order, pausing at each review gate. On an interactive terminal gates prompt for a decision; otherwise the run halts with the gate pending so it can be resolved with `podpress gate`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			switch {
			case approveAll:
				runner.WithDecider(pipeline.DeciderFunc(func(ctx context.Context, stage string, m *manifest.Manifest) (pipeline.Decision, error) {
					return pipeline.Decision{Choice: pipeline.ChoiceApprove, Notes: "approved via --yes"}, nil
				}))
			case isatty.IsTerminal(os.Stdin.Fd()):
				runner.WithDecider(newPromptDecider(cmd, ctx.projectRoot()))
			}

			if err := runner.Run(cmd.Context(), fromStage); err != nil {
				return err
			}
			return printStatus(cmd, ctx, false)
		},
	}

	cmd.Flags().StringVar(&fromStage, "from", "", "Start at this stage instead of the first actionable one")
	cmd.Flags().BoolVarP(&approveAll, "yes", "y", false, "Approve every gate without prompting")
	return cmd
}

// newPromptDecider asks for gate decisions on the terminal. An empty or
// unrecognized answer defers, which halts the run with the gate still
// pending.
func newPromptDecider(cmd *cobra.Command, root string) pipeline.Decider {
	reader := bufio.NewReader(os.Stdin)
	return pipeline.DeciderFunc(func(ctx context.Context, stage string, m *manifest.Manifest) (pipeline.Decision, error) {
		summary, err := pipeline.SummarizeGate(root, m, stage)
		if err != nil {
			return pipeline.Decision{}, err
		}
		renderGateSummary(cmd.OutOrStdout(), summary)

		fmt.Fprintf(cmd.OutOrStdout(), "Approve %s? [a]pprove / [r]eject / [s]kip: ", stage)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return pipeline.Decision{Choice: pipeline.Defer}, nil
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "a", "approve", "y", "yes":
			return pipeline.Decision{Choice: pipeline.ChoiceApprove, Notes: readNotes(cmd, reader)}, nil
		case "r", "reject", "n", "no":
			return pipeline.Decision{Choice: pipeline.ChoiceReject, Notes: readNotes(cmd, reader)}, nil
		default:
			return pipeline.Decision{Choice: pipeline.Defer}, nil
		}
	})
}

func readNotes(cmd *cobra.Command, reader *bufio.Reader) string {
	fmt.Fprint(cmd.OutOrStdout(), "Notes (optional): ")
	notes, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(notes)
}
