package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// column describes one column of a CLI view. Stage status and gate columns
// carry a colorizer so failed stages and pending reviews stand out on a
// terminal; numeric columns set Right so values line up.
type column struct {
	Title    string
	Right    bool
	Colorize func(value string) text.Colors
}

func statusColors(value string) text.Colors {
	switch value {
	case "completed":
		return text.Colors{text.FgGreen}
	case "in_progress":
		return text.Colors{text.FgYellow}
	case "failed":
		return text.Colors{text.FgRed}
	default:
		return nil
	}
}

func gateColors(value string) text.Colors {
	switch value {
	case "approved":
		return text.Colors{text.FgGreen}
	case "pending review":
		return text.Colors{text.FgYellow}
	default:
		return nil
	}
}

var colorizeOutput = isatty.IsTerminal(os.Stdout.Fd())

func renderColumns(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if colorizeOutput && col.Colorize != nil {
				if colors := col.Colorize(cell); colors != nil {
					cell = colors.Sprint(cell)
				}
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		align := text.AlignLeft
		if col.Right {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
