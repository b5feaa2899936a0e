package main

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"podpress/internal/journal"
	"podpress/internal/pipeline"
)

var stageCaser = cases.Title(language.Und)

func renderStatus(w io.Writer, view statusView) {
	fmt.Fprintf(w, "%s", view.Project)
	if view.Title != "" {
		fmt.Fprintf(w, " - %s", view.Title)
	}
	fmt.Fprintf(w, " (%s)\n", view.EpisodeID)
	fmt.Fprintf(w, "Current stage: %s\n\n", view.CurrentStage)

	rows := make([][]string, 0, len(view.Stages))
	for _, stage := range view.Stages {
		detail := stage.LastStep
		if stage.Error != "" {
			detail = stage.Error
		}
		rows = append(rows, []string{
			stageCaser.String(stage.Stage),
			stage.Status,
			stage.Gate,
			formatTimestamp(stage.CompletedAt),
			detail,
		})
	}

	fmt.Fprintln(w, renderColumns(
		[]column{
			{Title: "Stage"},
			{Title: "Status", Colorize: statusColors},
			{Title: "Gate", Colorize: gateColors},
			{Title: "Completed"},
			{Title: "Detail"},
		},
		rows,
	))
}

func renderGateSummary(w io.Writer, summary pipeline.GateSummary) {
	fmt.Fprintf(w, "\n%s stage completed for %s and awaits review.\n",
		stageCaser.String(summary.Stage), summary.EpisodeID)
	if summary.CompletedAt != nil {
		fmt.Fprintf(w, "Completed: %s\n", summary.CompletedAt.Format(time.RFC3339))
	}

	if len(summary.Stats) > 0 {
		rows := make([][]string, 0, len(summary.Stats))
		for _, stat := range summary.Stats {
			rows = append(rows, []string{stat.Label, stat.Value})
		}
		fmt.Fprintln(w, renderColumns(
			[]column{{Title: "Metric"}, {Title: "Value", Right: true}},
			rows,
		))
	}

	if len(summary.Artifacts) == 0 {
		fmt.Fprintln(w, "No artifacts were recorded for this stage.")
		return
	}

	rows := make([][]string, 0, len(summary.Artifacts))
	for _, artifact := range summary.Artifacts {
		rows = append(rows, []string{artifact})
	}
	fmt.Fprintln(w, renderColumns(
		[]column{{Title: "Artifact"}},
		rows,
	))
}

func renderHistory(w io.Writer, events []journal.Event) {
	rows := make([][]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, []string{
			event.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			stageCaser.String(event.Stage),
			event.Type,
			event.Detail,
		})
	}
	fmt.Fprintln(w, renderColumns(
		[]column{{Title: "Time"}, {Title: "Stage"}, {Title: "Event"}, {Title: "Detail"}},
		rows,
	))
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
