package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"podpress/internal/fileutil"
	"podpress/internal/manifest"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var name string
	var episode int
	var title string
	var date string
	var participants []string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new episode project",
		Long:  "Creates the project directory layout and a manifest seeded from configuration defaults. Participants are given as NAME:ROLE:TRACK, e.g. \"Alice:host:raw/alice.wav\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			parsed, err := parseParticipants(participants)
			if err != nil {
				return err
			}

			root := ctx.projectRoot()
			manifestPath := filepath.Join(root, manifest.FileName)
			if fileutil.Exists(manifestPath) {
				return fmt.Errorf("project already initialized: %s", manifestPath)
			}

			for _, dir := range []string{"raw", "artifacts"} {
				if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
					return fmt.Errorf("create project directory: %w", err)
				}
			}

			m := manifest.New(manifest.Project{
				Name:          name,
				EpisodeNumber: episode,
				Title:         title,
				RecordingDate: date,
				Participants:  parsed,
			}, cfg)
			if err := manifest.Save(manifestPath, m); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s (%s)\n", m.EpisodeID(), manifestPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Show name")
	cmd.Flags().IntVar(&episode, "episode", 0, "Episode number")
	cmd.Flags().StringVar(&title, "title", "", "Episode title")
	cmd.Flags().StringVar(&date, "date", "", "Recording date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&participants, "participant", nil, "Participant as NAME:ROLE:TRACK (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("episode")

	return cmd
}

func parseParticipants(raw []string) ([]manifest.Participant, error) {
	participants := make([]manifest.Participant, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid participant %q, expected NAME:ROLE:TRACK", entry)
		}
		participants = append(participants, manifest.Participant{
			Name:  strings.TrimSpace(parts[0]),
			Role:  strings.TrimSpace(parts[1]),
			Track: strings.TrimSpace(parts[2]),
		})
	}
	return participants, nil
}
